package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"ltd_tracker/internal/domain"
	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/pkg/errcodes"
	"ltd_tracker/pkg/logx"
)

const (
	TypeRefundReminder = "reminder:refund"
	DefaultQueue       = "reminders"

	maxRetry = 5
)

type Sender interface {
	Send(ctx context.Context, reminder entity.RefundReminder) error
}

// Enqueuer кладёт напоминания в очередь asynq. ID задачи совпадает с ключом
// напоминания, поэтому повторная постановка той же пары (сделка, дедлайн)
// не создаёт вторую задачу.
type Enqueuer struct {
	client *asynq.Client
	queue  string
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{
		client: client,
		queue:  DefaultQueue,
	}
}

func (e *Enqueuer) WithQueue(queue string) *Enqueuer {
	e.queue = queue
	return e
}

func (e *Enqueuer) Send(ctx context.Context, reminder entity.RefundReminder) error {
	task, err := NewRefundReminderTask(reminder)
	if err != nil {
		return err
	}

	info, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue(e.queue),
		asynq.MaxRetry(maxRetry),
		asynq.TaskID(reminder.Key()),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}

	if err != nil {
		return domain.WrapError(err, errcodes.ReminderEnqueue, "failed to enqueue reminder")
	}

	logger(ctx).Debug(
		"refund reminder enqueued",
		logx.Stringer(logx.FieldDealID, reminder.DealID),
		slog.String("task-id", info.ID),
	)

	return nil
}

func (e *Enqueuer) Name() string {
	return "asynq"
}

func NewRefundReminderTask(reminder entity.RefundReminder) (*asynq.Task, error) {
	payload, err := jsoniter.Marshal(reminder)
	if err != nil {
		return nil, fmt.Errorf("jsoniter.Marshal: %w", err)
	}

	return asynq.NewTask(TypeRefundReminder, payload), nil
}

// Handler обрабатывает задачи TypeRefundReminder, передавая напоминание
// дальше в Sender.
type Handler struct {
	sender Sender
}

func NewHandler(sender Sender) *Handler {
	return &Handler{sender: sender}
}

func (h *Handler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var reminder entity.RefundReminder
	if err := jsoniter.Unmarshal(task.Payload(), &reminder); err != nil {
		return fmt.Errorf("jsoniter.Unmarshal: %w: %w", err, asynq.SkipRetry)
	}

	if err := h.sender.Send(ctx, reminder); err != nil {
		return fmt.Errorf("sender.Send: %w", err)
	}

	return nil
}
