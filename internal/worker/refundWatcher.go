package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/internal/domain/service/query"
	"ltd_tracker/pkg/logx"
)

const (
	defaultCheckInterval = time.Hour
	defaultHorizonDays   = 7
	sentCleanupInterval  = time.Hour
)

type RefundSource interface {
	UpcomingRefunds(horizonDays int) []query.UpcomingRefund
}

type ReminderSink interface {
	Send(ctx context.Context, reminder entity.RefundReminder) error
	Name() string
}

type ReminderObserver interface {
	ObserveReminder(sink string, err error)
}

// RefundWatcher периодически смотрит на приближающиеся сроки возврата и
// отдаёт каждую пару (сделка, дедлайн) в sink ровно один раз. Неудачная
// отправка повторится на следующей проверке.
type RefundWatcher struct {
	source   RefundSource
	sink     ReminderSink
	observer ReminderObserver

	sent *cache.Cache

	interval    time.Duration
	horizonDays int

	// Control fields
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewRefundWatcher(source RefundSource, sink ReminderSink) *RefundWatcher {
	return &RefundWatcher{
		source:      source,
		sink:        sink,
		sent:        cache.New(cache.NoExpiration, sentCleanupInterval),
		interval:    defaultCheckInterval,
		horizonDays: defaultHorizonDays,
	}
}

func (w *RefundWatcher) WithInterval(interval time.Duration) *RefundWatcher {
	w.interval = interval
	return w
}

func (w *RefundWatcher) WithHorizon(days int) *RefundWatcher {
	w.horizonDays = days
	return w
}

func (w *RefundWatcher) WithObserver(observer ReminderObserver) *RefundWatcher {
	w.observer = observer
	return w
}

func (w *RefundWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("refund watcher is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("refund watcher stopped", logx.Error(err))
		}
	}()

	return nil
}

func (w *RefundWatcher) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *RefundWatcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

// Run проверяет сроки сразу и затем раз в interval, пока не отменят ctx.
func (w *RefundWatcher) Run(ctx context.Context) error {
	logger(ctx).Info(
		"refund watcher started",
		slog.String("sink", w.sink.Name()),
		slog.Duration("interval", w.interval),
		slog.Int("horizon-days", w.horizonDays),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.Check(ctx)

		select {
		case <-ctx.Done():
			logger(ctx).Info("refund watcher stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Check отправляет ещё не отправленные напоминания и возвращает их число.
func (w *RefundWatcher) Check(ctx context.Context) int {
	var sent int

	for _, upcoming := range w.source.UpcomingRefunds(w.horizonDays) {
		if ctx.Err() != nil {
			return sent
		}

		reminder := newReminder(upcoming)
		key := reminder.Key()

		if _, ok := w.sent.Get(key); ok {
			continue
		}

		err := w.sink.Send(ctx, reminder)
		if w.observer != nil {
			w.observer.ObserveReminder(w.sink.Name(), err)
		}

		if err != nil {
			logger(ctx).Error(
				"failed to send refund reminder",
				logx.Stringer(logx.FieldDealID, reminder.DealID),
				logx.Error(err),
			)

			continue
		}

		w.sent.Set(key, struct{}{}, sentTTL(reminder))
		sent++
	}

	if sent > 0 {
		logger(ctx).Info("refund reminders sent", slog.Int(logx.FieldDealsCount, sent))
	}

	return sent
}

// sentTTL: после дедлайна ключ больше не понадобится.
func sentTTL(reminder entity.RefundReminder) time.Duration {
	ttl := time.Until(reminder.RefundDeadline.AddDays(1).Time())
	if ttl <= 0 {
		return sentCleanupInterval
	}

	return ttl
}

func newReminder(u query.UpcomingRefund) entity.RefundReminder {
	return entity.RefundReminder{
		DealID:         u.Deal.ID,
		Name:           u.Deal.Name,
		Marketplace:    u.Deal.Marketplace,
		Price:          u.Deal.Price,
		RefundDeadline: u.Deal.RefundDeadline,
		DaysLeft:       u.DaysLeft,
		Urgent:         u.Urgent,
	}
}
