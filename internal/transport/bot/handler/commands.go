package handler

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"ltd_tracker/internal/domain"
	"ltd_tracker/internal/domain/service/query"
	"ltd_tracker/internal/domain/value"
	"ltd_tracker/internal/transport/bot/view"
)

const dealsPagePrefix = "deals_page:"

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

func (h *Handler) OnStats(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.Stats(h.query.Summary()))
}

// OnDeals показывает первую страницу списка, новые сделки сверху.
func (h *Handler) OnDeals(ctx *th.Context, msg telego.Message) error {
	text, keyboard, ok := h.dealsPage(1)
	if !ok {
		return h.sendHTML(ctx, msg.Chat.ID, view.DealsEmpty)
	}

	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:      tu.ID(msg.Chat.ID),
		Text:        text,
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: keyboard,
	})

	return err
}

// OnDealsPage перелистывает список. Формат данных: "deals_page:<номер>".
func (h *Handler) OnDealsPage(ctx *th.Context, cb telego.CallbackQuery) error {
	page, err := strconv.Atoi(strings.TrimPrefix(cb.Data, dealsPagePrefix))
	if err != nil {
		page = 1
	}

	text, keyboard, ok := h.dealsPage(page)
	if !ok {
		text = view.DealsEmpty
	}

	if cb.Message != nil {
		_, err = ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
			ChatID:      tu.ID(cb.Message.GetChat().ID),
			MessageID:   cb.Message.GetMessageID(),
			Text:        text,
			ParseMode:   telego.ModeHTML,
			ReplyMarkup: keyboard,
		})
		// Telegram отвечает ошибкой, если текст не изменился.
		if err != nil {
			logger(ctx).Debug("edit deals page", slog.Any("error", err))
		}
	}

	return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(cb.ID))
}

// OnUpcoming: /upcoming [дней], по умолчанию неделя.
func (h *Handler) OnUpcoming(ctx *th.Context, msg telego.Message) error {
	days := defaultUpcomingDays

	if args := strings.Fields(msg.Text); len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return h.sendHTML(ctx, msg.Chat.ID, view.UpcomingInvalidDays)
		}
		days = n
	}

	return h.sendHTML(ctx, msg.Chat.ID, view.Upcoming(h.query.UpcomingRefunds(days), days))
}

// OnFavorite: /fav <ID>.
func (h *Handler) OnFavorite(ctx *th.Context, msg telego.Message) error {
	args := strings.Fields(msg.Text)
	if len(args) < 2 { //nolint:mnd
		return h.sendHTML(ctx, msg.Chat.ID, view.FavoriteUsage)
	}

	id := value.DealID(args[1])

	d, err := h.store.ToggleFavorite(id)
	if domain.IsNotFoundError(err) {
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.DealNotFound, id))
	}

	if err != nil {
		return fmt.Errorf("store.ToggleFavorite: %w", err)
	}

	return h.sendHTML(ctx, msg.Chat.ID, view.Favorite(d))
}

func (h *Handler) dealsPage(page int) (string, *telego.InlineKeyboardMarkup, bool) {
	deals, total := h.query.Query(query.Spec{})
	if len(deals) == 0 {
		return "", nil, false
	}

	p := view.Paginate(len(deals), page, dealsPageSize)

	return view.DealsPage(deals[p.Start:p.End], p, total), createPaginationKeyboard(p.Number, p.TotalPages), true
}

func createPaginationKeyboard(page, totalPages int) *telego.InlineKeyboardMarkup {
	var buttons []telego.InlineKeyboardButton

	if page > 1 {
		buttons = append(buttons, tu.InlineKeyboardButton("⬅️").
			WithCallbackData(fmt.Sprintf("%s%d", dealsPagePrefix, page-1)))
	}

	buttons = append(buttons, tu.InlineKeyboardButton(fmt.Sprintf("%d / %d", page, totalPages)).
		WithCallbackData("noop"))

	if page < totalPages {
		buttons = append(buttons, tu.InlineKeyboardButton("➡️").
			WithCallbackData(fmt.Sprintf("%s%d", dealsPagePrefix, page+1)))
	}

	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(buttons...),
	)
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    tu.ID(chatID),
		Text:      text,
		ParseMode: telego.ModeHTML,
	})

	return err
}
