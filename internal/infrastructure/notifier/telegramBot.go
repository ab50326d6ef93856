package notifier

import (
	"context"
	"fmt"
	"html"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/pkg/logx"
)

type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(bot *telego.Bot, chatID int64) *TelegramBot {
	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}
}

// Send отправляет напоминание о возврате в чат владельца.
func (b *TelegramBot) Send(ctx context.Context, reminder entity.RefundReminder) error {
	msg := tu.Message(
		tu.ID(b.chatID),
		ReminderText(reminder),
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	logger(ctx).Info("refund reminder sent", logx.Stringer(logx.FieldDealID, reminder.DealID))

	return nil
}

func (b *TelegramBot) Name() string {
	return "telegram"
}

func ReminderText(r entity.RefundReminder) string {
	header := "⏰ <b>Refund deadline approaching</b>"
	if r.Urgent {
		header = "🚨 <b>Refund deadline is close!</b>"
	}

	return fmt.Sprintf(
		"%s\n\n"+
			"📦 <b>Deal:</b> %s\n"+
			"🏪 <b>Marketplace:</b> %s\n"+
			"💰 <b>Price:</b> $%s\n"+
			"📅 <b>Deadline:</b> %s (%s)",
		header,
		html.EscapeString(r.Name),
		html.EscapeString(r.Marketplace.String()),
		r.Price.StringFixed(2), //nolint:mnd
		r.RefundDeadline,
		daysLeftText(r.DaysLeft),
	)
}

func daysLeftText(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}
