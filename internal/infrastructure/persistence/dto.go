package persistence

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/internal/domain/value"
)

// dealSchema — строка таблицы deals. Position хранит порядок коллекции.
type dealSchema struct {
	ID             string          `db:"id"`
	Position       int             `db:"position"`
	Name           string          `db:"name"`
	Marketplace    string          `db:"marketplace"`
	Price          decimal.Decimal `db:"price"`
	PurchaseDate   time.Time       `db:"purchase_date"`
	RefundWindow   int             `db:"refund_window"`
	RefundDeadline time.Time       `db:"refund_deadline"`
	ExpiryDate     sql.NullTime    `db:"expiry_date"`
	Category       string          `db:"category"`
	Status         string          `db:"status"`
	Favorite       bool            `db:"favorite"`
	Description    string          `db:"description"`
	Notes          string          `db:"notes"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

func fromDeal(d entity.Deal, position int) dealSchema {
	s := dealSchema{
		ID:             d.ID.String(),
		Position:       position,
		Name:           d.Name,
		Marketplace:    d.Marketplace.String(),
		Price:          d.Price,
		PurchaseDate:   d.PurchaseDate.Time(),
		RefundWindow:   d.RefundWindow,
		RefundDeadline: d.RefundDeadline.Time(),
		Category:       d.Category,
		Status:         d.Status.String(),
		Favorite:       d.Favorite,
		Description:    d.Description,
		Notes:          d.Notes,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}

	if d.HasExpiry() {
		s.ExpiryDate = sql.NullTime{Time: d.ExpiryDate.Time(), Valid: true}
	}

	return s
}

// toDomain не валидирует запись: это делает Store.Load.
func (s *dealSchema) toDomain() entity.Deal {
	d := entity.Deal{
		ID:             value.DealID(s.ID),
		Name:           s.Name,
		Marketplace:    value.Marketplace(s.Marketplace),
		Price:          s.Price,
		PurchaseDate:   value.DateOf(s.PurchaseDate),
		RefundWindow:   s.RefundWindow,
		RefundDeadline: value.DateOf(s.RefundDeadline),
		Category:       s.Category,
		Status:         value.Status(s.Status),
		Favorite:       s.Favorite,
		Description:    s.Description,
		Notes:          s.Notes,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}

	if s.ExpiryDate.Valid {
		expiry := value.DateOf(s.ExpiryDate.Time)
		d.ExpiryDate = &expiry
	}

	return d
}
