package query

import (
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/internal/domain/value"
)

// Срок возврата, начиная с которого напоминание считается срочным.
const UrgentRefundDays = 3

// Summary — сводка по коллекции. Счётчики по статусам берутся из
// выставленного пользователем Status, а не из дат.
type Summary struct {
	Total           int
	Active          int
	Refundable      int
	ExpiringSoon    int
	Favorites       int
	TotalInvestment decimal.Decimal
}

func Summarize(snapshot []entity.Deal) Summary {
	countStatus := func(status value.Status) int {
		return lo.CountBy(snapshot, func(d entity.Deal) bool { return d.Status == status })
	}

	return Summary{
		Total:        len(snapshot),
		Active:       countStatus(value.StatusActive),
		Refundable:   countStatus(value.StatusRefundable),
		ExpiringSoon: countStatus(value.StatusExpiringSoon),
		Favorites:    lo.CountBy(snapshot, func(d entity.Deal) bool { return d.Favorite }),
		TotalInvestment: lo.Reduce(snapshot, func(sum decimal.Decimal, d entity.Deal, _ int) decimal.Decimal {
			return sum.Add(d.Price)
		}, decimal.Zero),
	}
}

type UpcomingRefund struct {
	Deal     entity.Deal
	DaysLeft int
	Urgent   bool
}

// UpcomingRefunds — сделки, у которых срок возврата наступает в интервале
// [today, today+horizonDays], по возрастанию дедлайна.
func UpcomingRefunds(snapshot []entity.Deal, today value.Date, horizonDays int) []UpcomingRefund {
	out := lo.FilterMap(snapshot, func(d entity.Deal, _ int) (UpcomingRefund, bool) {
		daysLeft := d.DaysUntilRefundDeadline(today)
		if daysLeft < 0 || daysLeft > horizonDays {
			return UpcomingRefund{}, false
		}

		return UpcomingRefund{
			Deal:     d.Clone(),
			DaysLeft: daysLeft,
			Urgent:   daysLeft <= UrgentRefundDays,
		}, true
	})

	slices.SortStableFunc(out, func(a, b UpcomingRefund) int {
		return a.Deal.RefundDeadline.Compare(b.Deal.RefundDeadline)
	})

	return out
}
