package persistence_test

import (
	"context"
	"os"
	"testing"

	"github.com/rs/xid"
	"github.com/stretchr/testify/require"

	"ltd_tracker/internal/domain/service/deal"
	"ltd_tracker/internal/infrastructure/persistence"
	"ltd_tracker/pkg/application/connectors"
)

func TestRedisRepositoryRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}

	rq := require.New(t)
	ctx := context.Background()

	rdb := &connectors.Redis{Address: addr, PoolSize: 2}
	defer rdb.Close(ctx)

	client, err := rdb.Client(ctx)
	rq.NoError(err)

	key := "ltd_tracker:test:" + xid.New().String()
	defer client.Del(ctx, key)

	repo := persistence.NewRedisRepository(client).WithKey(key)

	empty, err := repo.Load(ctx)
	rq.NoError(err)
	rq.Empty(empty)

	store := deal.NewStore()

	withExpiry := input("First")
	withExpiry.ExpiryDate = "2025-01-01"

	_, err = store.AddDeal(withExpiry)
	rq.NoError(err)

	rq.NoError(repo.Save(ctx, store.ListDeals()))

	loaded, err := repo.Load(ctx)
	rq.NoError(err)
	rq.Len(loaded, 1)
	rq.Equal("First", loaded[0].Name)
	rq.Equal("2025-01-01", loaded[0].ExpiryDate.String())
	rq.Equal("2024-01-31", loaded[0].RefundDeadline.String())
}
