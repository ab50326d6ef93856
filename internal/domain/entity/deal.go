package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"ltd_tracker/internal/domain/value"
)

const (
	DefaultRefundWindow = 30
	// За сколько дней до окончания срока сделка считается "истекающей".
	ExpiringSoonWithinDays = 30
)

// Deal — купленная lifetime-сделка.
type Deal struct {
	ID           value.DealID      `json:"id"`
	Name         string            `json:"name"`
	Marketplace  value.Marketplace `json:"marketplace"`
	Price        decimal.Decimal   `json:"price"`
	PurchaseDate value.Date        `json:"purchaseDate"`
	RefundWindow int               `json:"refundWindow"`
	// RefundDeadline = PurchaseDate + RefundWindow, считается только хранилищем.
	RefundDeadline value.Date   `json:"refundDeadline"`
	ExpiryDate     *value.Date  `json:"expiryDate,omitempty"`
	Category       string       `json:"category"`
	Status         value.Status `json:"status"`
	Favorite       bool         `json:"favorite"`
	Description    string       `json:"description,omitempty"`
	Notes          string       `json:"notes,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

func (d Deal) Clone() Deal {
	if d.ExpiryDate != nil {
		expiry := *d.ExpiryDate
		d.ExpiryDate = &expiry
	}

	return d
}

func (d Deal) HasExpiry() bool {
	return d.ExpiryDate != nil && !d.ExpiryDate.IsZero()
}

// IsRefundable — срок возврата ещё не прошёл (день дедлайна включительно).
func (d Deal) IsRefundable(today value.Date) bool {
	return !today.After(d.RefundDeadline)
}

// DaysUntilRefundDeadline отрицательно, если дедлайн уже прошёл.
func (d Deal) DaysUntilRefundDeadline(today value.Date) int {
	return today.DaysUntil(d.RefundDeadline)
}

func (d Deal) IsExpired(today value.Date) bool {
	return d.HasExpiry() && d.ExpiryDate.Before(today)
}

func (d Deal) IsExpiringSoon(today value.Date, withinDays int) bool {
	if !d.HasExpiry() || d.IsExpired(today) {
		return false
	}

	return today.DaysUntil(*d.ExpiryDate) <= withinDays
}

// Input возвращает запись в виде входных данных, чтобы к ней можно было
// применить патч и прогнать полную валидацию заново.
func (d Deal) Input() DealInput {
	price := d.Price
	refundWindow := d.RefundWindow

	input := DealInput{
		Name:         d.Name,
		Marketplace:  d.Marketplace.String(),
		Price:        &price,
		PurchaseDate: d.PurchaseDate.String(),
		RefundWindow: &refundWindow,
		Category:     d.Category,
		Status:       d.Status.String(),
		Favorite:     d.Favorite,
		Description:  d.Description,
		Notes:        d.Notes,
	}

	if d.HasExpiry() {
		input.ExpiryDate = d.ExpiryDate.String()
	}

	return input
}

// DealInput — данные для создания сделки. ID сюда не входит: его всегда
// выдаёт хранилище. Даты приходят строками YYYY-MM-DD и разбираются при
// валидации.
type DealInput struct {
	Name         string           `json:"name" validate:"required"`
	Marketplace  string           `json:"marketplace" validate:"required"`
	Price        *decimal.Decimal `json:"price" validate:"required"`
	PurchaseDate string           `json:"purchaseDate" validate:"required"`
	RefundWindow *int             `json:"refundWindow" validate:"omitnil,min=0,max=3650"`
	ExpiryDate   string           `json:"expiryDate"`
	Category     string           `json:"category" validate:"required"`
	Status       string           `json:"status"`
	Favorite     bool             `json:"favorite"`
	Description  string           `json:"description"`
	Notes        string           `json:"notes"`
}

// DealPatch — частичное обновление: nil-поля не трогаются. Пустая строка в
// ExpiryDate снимает срок действия.
type DealPatch struct {
	Name         *string          `json:"name"`
	Marketplace  *string          `json:"marketplace"`
	Price        *decimal.Decimal `json:"price"`
	PurchaseDate *string          `json:"purchaseDate"`
	RefundWindow *int             `json:"refundWindow"`
	ExpiryDate   *string          `json:"expiryDate"`
	Category     *string          `json:"category"`
	Status       *string          `json:"status"`
	Favorite     *bool            `json:"favorite"`
	Description  *string          `json:"description"`
	Notes        *string          `json:"notes"`
}

// ApplyTo поверхностно перезаписывает поля input непустыми полями патча.
func (p DealPatch) ApplyTo(input DealInput) DealInput {
	assign(&input.Name, p.Name)
	assign(&input.Marketplace, p.Marketplace)
	assign(&input.PurchaseDate, p.PurchaseDate)
	assign(&input.ExpiryDate, p.ExpiryDate)
	assign(&input.Category, p.Category)
	assign(&input.Status, p.Status)
	assign(&input.Favorite, p.Favorite)
	assign(&input.Description, p.Description)
	assign(&input.Notes, p.Notes)

	if p.Price != nil {
		price := *p.Price
		input.Price = &price
	}

	if p.RefundWindow != nil {
		refundWindow := *p.RefundWindow
		input.RefundWindow = &refundWindow
	}

	return input
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
