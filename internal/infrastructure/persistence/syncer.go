package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/internal/domain/service/deal"
	"ltd_tracker/pkg/logx"
)

const (
	defaultFlushTimeout = 5 * time.Second
	defaultRetryDelay   = 5 * time.Second
)

type Repository interface {
	Load(ctx context.Context) ([]entity.Deal, error)
	Save(ctx context.Context, deals []entity.Deal) error
	Name() string
}

// Store — то, что нужно синхронизатору от хранилища сделок.
type Store interface {
	Load(deals []entity.Deal) error
	Subscribe(fn deal.Subscriber) (unsubscribe func())
}

// Syncer поднимает коллекцию из репозитория при старте и сохраняет снимок
// после каждой мутации. Подписчик только запоминает последний снимок, запись
// идёт в Run, поэтому мутации не ждут репозиторий. Несколько событий подряд
// схлопываются в одну запись последнего снимка.
type Syncer struct {
	repo  Repository
	store Store

	mu      sync.Mutex
	pending *deal.Event
	saved   uint64
	signal  chan struct{}

	subscribeOnce sync.Once
	unsubscribe   func()

	flushTimeout time.Duration
	retryDelay   time.Duration
}

func NewSyncer(repo Repository, store Store) *Syncer {
	return &Syncer{
		repo:         repo,
		store:        store,
		signal:       make(chan struct{}, 1),
		flushTimeout: defaultFlushTimeout,
		retryDelay:   defaultRetryDelay,
	}
}

// WithRetryDelay задаёт паузу перед повторной записью после ошибки.
func (s *Syncer) WithRetryDelay(delay time.Duration) *Syncer {
	s.retryDelay = delay
	return s
}

// Restore загружает снимок из репозитория в хранилище. После Restore
// мутации уже отслеживаются, даже если Run ещё не запущен.
func (s *Syncer) Restore(ctx context.Context) error {
	s.subscribe()

	deals, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("repo.Load: %w", err)
	}

	if err := s.store.Load(deals); err != nil {
		return fmt.Errorf("store.Load: %w", err)
	}

	logger(ctx).Info(
		"deals restored",
		slog.String(logx.FieldStorage, s.repo.Name()),
		slog.Int(logx.FieldDealsCount, len(deals)),
	)

	return nil
}

// Run подписывается на хранилище и пишет снимки до отмены ctx. Последний
// несохранённый снимок дописывается уже после отмены. Неудачная запись
// повторяется через retryDelay, не дожидаясь следующей мутации.
func (s *Syncer) Run(ctx context.Context) error {
	s.subscribe()
	defer s.unsubscribe()

	retry := time.NewTimer(s.retryDelay)
	retry.Stop()
	defer retry.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.flushTimeout)
			defer cancel()

			s.flush(flushCtx)

			return nil
		case <-s.signal:
		case <-retry.C:
		}

		if !s.flush(ctx) {
			retry.Reset(s.retryDelay)
		}
	}
}

// SavedRevision — ревизия последнего успешно сохранённого снимка.
func (s *Syncer) SavedRevision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saved
}

func (s *Syncer) subscribe() {
	s.subscribeOnce.Do(func() {
		s.unsubscribe = s.store.Subscribe(s.handle)
	})
}

func (s *Syncer) handle(event deal.Event) {
	// Загрузка из этого же репозитория сохранять нечего.
	if event.Type == deal.EventLoaded {
		s.mu.Lock()
		s.saved = event.Revision
		s.mu.Unlock()

		return
	}

	s.mu.Lock()
	s.pending = &event
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

// flush пишет отложенный снимок. false — запись не удалась, снимок
// вернулся в очередь.
func (s *Syncer) flush(ctx context.Context) bool {
	s.mu.Lock()
	event := s.pending
	s.pending = nil
	s.mu.Unlock()

	if event == nil {
		return true
	}

	if err := s.repo.Save(ctx, event.Snapshot); err != nil {
		logger(ctx).Error(
			"failed to save deals",
			slog.String(logx.FieldStorage, s.repo.Name()),
			slog.Uint64(logx.FieldRevision, event.Revision),
			logx.Error(err),
		)

		s.mu.Lock()
		if s.pending == nil {
			s.pending = event
		}
		s.mu.Unlock()

		return false
	}

	s.mu.Lock()
	s.saved = event.Revision
	s.mu.Unlock()

	logger(ctx).Debug(
		"deals saved",
		slog.String(logx.FieldStorage, s.repo.Name()),
		slog.String(logx.FieldEventType, event.Type.String()),
		slog.Uint64(logx.FieldRevision, event.Revision),
		slog.Int(logx.FieldDealsCount, len(event.Snapshot)),
	)

	return true
}
