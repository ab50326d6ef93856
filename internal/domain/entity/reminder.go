package entity

import (
	"github.com/shopspring/decimal"

	"ltd_tracker/internal/domain/value"
)

// RefundReminder — напоминание о приближающемся сроке возврата.
type RefundReminder struct {
	DealID         value.DealID      `json:"dealId"`
	Name           string            `json:"name"`
	Marketplace    value.Marketplace `json:"marketplace"`
	Price          decimal.Decimal   `json:"price"`
	RefundDeadline value.Date        `json:"refundDeadline"`
	DaysLeft       int               `json:"daysLeft"`
	Urgent         bool              `json:"urgent"`
}

// Key одинаков для одной и той же пары (сделка, дедлайн): если дедлайн
// сдвинули, напоминание считается новым.
func (r RefundReminder) Key() string {
	return r.DealID.String() + ":" + r.RefundDeadline.String()
}
