package persistence_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/internal/domain/service/deal"
	"ltd_tracker/internal/domain/value"
	"ltd_tracker/internal/infrastructure/persistence"
)

type memoryRepo struct {
	mu       sync.Mutex
	deals    []entity.Deal
	saves    int
	loadErr  error
	failures int
}

func (r *memoryRepo) Load(context.Context) ([]entity.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.deals, r.loadErr
}

func (r *memoryRepo) Save(_ context.Context, deals []entity.Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failures > 0 {
		r.failures--
		return errors.New("connection reset")
	}

	r.deals = deals
	r.saves++

	return nil
}

func (r *memoryRepo) Name() string {
	return "memory"
}

func (r *memoryRepo) snapshot() []entity.Deal {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.deals
}

func input(name string) entity.DealInput {
	price := decimal.NewFromInt(49)

	return entity.DealInput{
		Name:         name,
		Marketplace:  "AppSumo",
		Price:        &price,
		PurchaseDate: "2024-01-01",
		Category:     "Design",
	}
}

func TestSyncerRestore(t *testing.T) {
	rq := require.New(t)

	repo := &memoryRepo{
		deals: []entity.Deal{
			{
				ID:           "persisted",
				Name:         "Saved",
				Marketplace:  value.MarketplaceAppSumo,
				Price:        decimal.NewFromInt(10),
				PurchaseDate: value.MustParseDate("2024-01-01"),
				RefundWindow: 30,
				Category:     "Design",
				Status:       value.StatusActive,
			},
		},
	}

	store := deal.NewStore()
	rq.NoError(persistence.NewSyncer(repo, store).Restore(context.Background()))

	d, ok := store.GetDealByID("persisted")
	rq.True(ok)
	rq.Equal("2024-01-31", d.RefundDeadline.String())
}

func TestSyncerRestoreError(t *testing.T) {
	rq := require.New(t)

	repo := &memoryRepo{loadErr: errors.New("connection refused")}

	err := persistence.NewSyncer(repo, deal.NewStore()).Restore(context.Background())
	rq.ErrorContains(err, "connection refused")
}

func TestSyncerSavesSnapshots(t *testing.T) {
	rq := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())

	repo := &memoryRepo{}
	store := deal.NewStore()
	syncer := persistence.NewSyncer(repo, store)

	rq.NoError(syncer.Restore(ctx))

	first, err := store.AddDeal(input("First"))
	rq.NoError(err)

	var eg errgroup.Group
	eg.Go(func() error {
		return syncer.Run(ctx)
	})

	rq.Eventually(func() bool {
		return len(repo.snapshot()) == 1
	}, time.Second, 10*time.Millisecond)

	_, err = store.AddDeal(input("Second"))
	rq.NoError(err)

	store.DeleteDeal(first.ID)

	cancel()
	rq.NoError(eg.Wait())

	saved := repo.snapshot()
	rq.Len(saved, 1)
	rq.Equal("Second", saved[0].Name)
	rq.Equal(store.Revision(), syncer.SavedRevision())
}

func TestSyncerSkipsLoadedSnapshot(t *testing.T) {
	rq := require.New(t)

	repo := &memoryRepo{deals: []entity.Deal{}}
	store := deal.NewStore()
	syncer := persistence.NewSyncer(repo, store)

	rq.NoError(syncer.Restore(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rq.NoError(syncer.Run(ctx))
	rq.Zero(repo.saves)
	rq.Equal(store.Revision(), syncer.SavedRevision())
}

func TestSyncerRetriesFailedSave(t *testing.T) {
	rq := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := &memoryRepo{failures: 2}
	store := deal.NewStore()
	syncer := persistence.NewSyncer(repo, store).WithRetryDelay(10 * time.Millisecond)

	rq.NoError(syncer.Restore(ctx))

	var eg errgroup.Group
	eg.Go(func() error {
		return syncer.Run(ctx)
	})

	_, err := store.AddDeal(input("Only"))
	rq.NoError(err)

	rq.Eventually(func() bool {
		return syncer.SavedRevision() == store.Revision()
	}, time.Second, 10*time.Millisecond)

	saved := repo.snapshot()
	rq.Len(saved, 1)
	rq.Equal("Only", saved[0].Name)

	cancel()
	rq.NoError(eg.Wait())
}
