package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"ltd_tracker/internal/transport/bot/handler"
)

const longPollingTimeout = 60

// Bot принимает команды администратора через long polling.
type Bot struct {
	bot     *telego.Bot
	handler *handler.Handler
	adminID int64
}

func New(bot *telego.Bot, h *handler.Handler, adminID int64) *Bot {
	return &Bot{
		bot:     bot,
		handler: h,
		adminID: adminID,
	}
}

// Run блокируется до отмены ctx.
func (b *Bot) Run(ctx context.Context) error {
	updates, err := b.bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: longPollingTimeout,
	})
	if err != nil {
		return fmt.Errorf("bot.UpdatesViaLongPolling: %w", err)
	}

	botHandler, err := th.NewBotHandler(b.bot, updates)
	if err != nil {
		return fmt.Errorf("th.NewBotHandler: %w", err)
	}

	b.handler.RegisterRoutes(botHandler, b.adminID)

	go func() {
		if err := botHandler.Start(); err != nil {
			logger(ctx).Error("bot: handler stopped", slog.Any("error", err))
		}
	}()

	logger(ctx).Info("bot: started", slog.Int64("admin_id", b.adminID))

	<-ctx.Done()

	if err := botHandler.Stop(); err != nil {
		logger(ctx).Error("bot: stop handler", slog.Any("error", err))
	}

	return nil
}
