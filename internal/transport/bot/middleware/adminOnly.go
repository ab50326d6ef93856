package middleware

import (
	"log/slog"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"ltd_tracker/pkg/contextx"
)

// AdminOnly пропускает дальше только сообщения и нажатия кнопок от adminID.
func AdminOnly(adminID int64) th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		userID, ok := senderID(update)
		if !ok {
			return nil
		}

		if userID == adminID {
			return ctx.Next(update)
		}

		contextx.LoggerFromContextOrDefault(ctx).Warn("bot: update from non-admin ignored",
			slog.Int64("user_id", userID),
		)

		return nil
	}
}

func senderID(update telego.Update) (int64, bool) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, true
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID, true
	default:
		return 0, false
	}
}
