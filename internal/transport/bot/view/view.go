// Package view содержит тексты сообщений бота. Все сообщения в HTML-разметке
// Telegram.
package view

import (
	"fmt"
	"html"
	"strings"

	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/internal/domain/service/query"
)

const StartMessage = `👋 <b>LTD Tracker</b>

Слежу за вашими lifetime-сделками и сроками возврата.

/deals — список сделок
/stats — сводка
/upcoming <code>[дней]</code> — ближайшие сроки возврата
/fav <code>ID</code> — добавить в избранное или убрать`

const (
	DealsEmpty           = "📭 Сделок пока нет"
	UpcomingEmpty        = "✅ В ближайшие %d дн. сроков возврата нет"
	FavoriteUsage        = "❌ Использование: /fav <code>ID</code>"
	UpcomingInvalidDays  = "❌ Число дней должно быть неотрицательным целым"
	DealNotFound         = "⚠️ Сделка <code>%s</code> не найдена"
	FavoriteAdded        = "⭐ <b>%s</b> добавлена в избранное"
	FavoriteRemoved      = "☆ <b>%s</b> убрана из избранного"
	dealsPageHeader      = "📚 <b>Сделки</b> (стр. %d/%d, всего %d)\n\n"
	dealItemTemplate     = "%s<b>%s</b> · %s · $%s\n   <code>%s</code> · возврат до %s\n"
	upcomingHeader       = "⏰ <b>Сроки возврата на %d дн.</b>\n\n"
	upcomingItemTemplate = "%s <b>%s</b> · %s · %s\n"
)

// Page — границы страницы в срезе из total элементов.
type Page struct {
	Number     int
	TotalPages int
	Start      int
	End        int
}

// Paginate приводит номер страницы к допустимому диапазону. Для пустого
// списка получается одна пустая страница.
func Paginate(total, page, limit int) Page {
	totalPages := max((total+limit-1)/limit, 1)
	page = min(max(page, 1), totalPages)

	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	return Page{
		Number:     page,
		TotalPages: totalPages,
		Start:      start,
		End:        end,
	}
}

func DealsPage(deals []entity.Deal, page Page, total int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(dealsPageHeader, page.Number, page.TotalPages, total))

	for _, d := range deals {
		star := ""
		if d.Favorite {
			star = "⭐ "
		}

		sb.WriteString(fmt.Sprintf(
			dealItemTemplate,
			star,
			html.EscapeString(d.Name),
			html.EscapeString(d.Marketplace.String()),
			d.Price.StringFixed(2), //nolint:mnd
			d.ID,
			d.RefundDeadline,
		))
	}

	return sb.String()
}

func Stats(s query.Summary) string {
	return fmt.Sprintf(`📊 <b>Сводка</b>

📦 <b>Всего сделок:</b> %d
🟢 <b>Активных:</b> %d
💰 <b>Вложено:</b> $%s
↩️ <b>Можно вернуть:</b> %d
⌛ <b>Скоро истекают:</b> %d
⭐ <b>В избранном:</b> %d`,
		s.Total,
		s.Active,
		s.TotalInvestment.StringFixed(2), //nolint:mnd
		s.Refundable,
		s.ExpiringSoon,
		s.Favorites,
	)
}

func Upcoming(upcoming []query.UpcomingRefund, days int) string {
	if len(upcoming) == 0 {
		return fmt.Sprintf(UpcomingEmpty, days)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(upcomingHeader, days))

	for _, u := range upcoming {
		mark := "🟡"
		if u.Urgent {
			mark = "🔴"
		}

		sb.WriteString(fmt.Sprintf(
			upcomingItemTemplate,
			mark,
			html.EscapeString(u.Deal.Name),
			u.Deal.RefundDeadline,
			daysLeft(u.DaysLeft),
		))
	}

	return sb.String()
}

func Favorite(d entity.Deal) string {
	if d.Favorite {
		return fmt.Sprintf(FavoriteAdded, html.EscapeString(d.Name))
	}

	return fmt.Sprintf(FavoriteRemoved, html.EscapeString(d.Name))
}

func daysLeft(days int) string {
	switch days {
	case 0:
		return "сегодня"
	case 1:
		return "завтра"
	default:
		return fmt.Sprintf("через %d дн.", days)
	}
}
