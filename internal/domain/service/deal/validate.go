package deal

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"ltd_tracker/internal/domain"
	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/internal/domain/value"
)

const (
	priceScale  = 2
	maxDateYear = 9999
	maxPriceExp = 10
)

// Цена хранится в NUMERIC(12, 2): не больше 10 знаков до запятой.
//
//nolint:gochecknoglobals
var priceLimit = decimal.New(1, maxPriceExp)

//nolint:gochecknoglobals
var requiredMessages = map[string]string{
	"name":         "Deal name is required",
	"marketplace":  "Marketplace is required",
	"price":        "Valid price is required",
	"purchaseDate": "Purchase date is required",
	"category":     "Category is required",
}

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// build проверяет input и собирает из него запись без ID и служебных
// временных меток. Все ошибки по полям собираются в один ValidationError.
func (s *Store) build(input entity.DealInput) (entity.Deal, error) {
	input = normalize(input)
	verr := domain.NewValidationError()

	if err := s.validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return entity.Deal{}, err
		}

		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), fieldMessage(fe))
		}
	}

	d := entity.Deal{
		Name:         input.Name,
		RefundWindow: entity.DefaultRefundWindow,
		Category:     input.Category,
		Status:       value.StatusActive,
		Favorite:     input.Favorite,
		Description:  input.Description,
		Notes:        input.Notes,
	}

	if input.Marketplace != "" {
		marketplace, err := value.ParseMarketplace(input.Marketplace)
		if err != nil {
			verr.Add("marketplace", "Unknown marketplace")
		}
		d.Marketplace = marketplace
	}

	if input.Price != nil {
		switch p := *input.Price; {
		case !p.IsPositive():
			verr.Add("price", requiredMessages["price"])
		case !p.Equal(p.Round(priceScale)):
			verr.Add("price", "Price can have at most 2 decimal places")
		case p.GreaterThanOrEqual(priceLimit):
			verr.Add("price", "Price is too large")
		}
		d.Price = *input.Price
	}

	if input.PurchaseDate != "" {
		purchaseDate, err := value.ParseDate(input.PurchaseDate)
		if err != nil {
			verr.Add("purchaseDate", "Purchase date must be a valid date (YYYY-MM-DD)")
		}
		d.PurchaseDate = purchaseDate
	}

	if input.RefundWindow != nil {
		d.RefundWindow = *input.RefundWindow
	}

	if input.ExpiryDate != "" {
		expiryDate, err := value.ParseDate(input.ExpiryDate)
		if err != nil {
			verr.Add("expiryDate", "Expiry date must be a valid date (YYYY-MM-DD)")
		} else {
			d.ExpiryDate = &expiryDate
		}
	}

	if input.Status != "" {
		status, err := value.ParseStatus(input.Status)
		if err != nil {
			verr.Add("status", "Unknown status")
		}
		d.Status = status
	}

	if err := verr.Err(); err != nil {
		return entity.Deal{}, err
	}

	d.RefundDeadline = refundDeadline(d.PurchaseDate, d.RefundWindow)
	if d.RefundDeadline.Year() > maxDateYear {
		verr.Add("refundWindow", "Refund deadline is out of range")
		return entity.Deal{}, verr.Err()
	}

	return d, nil
}

func refundDeadline(purchaseDate value.Date, refundWindow int) value.Date {
	return purchaseDate.AddDays(refundWindow)
}

func normalize(input entity.DealInput) entity.DealInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Marketplace = strings.TrimSpace(input.Marketplace)
	input.PurchaseDate = strings.TrimSpace(input.PurchaseDate)
	input.ExpiryDate = strings.TrimSpace(input.ExpiryDate)
	input.Category = strings.TrimSpace(input.Category)
	input.Status = strings.TrimSpace(input.Status)

	return input
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if msg, ok := requiredMessages[fe.Field()]; ok {
			return msg
		}
		return fe.Field() + " is required"
	case "min":
		if fe.Field() == "refundWindow" {
			return "Refund window cannot be negative"
		}
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		if fe.Field() == "refundWindow" {
			return "Refund window cannot exceed " + fe.Param() + " days"
		}
		return fe.Field() + " must be at most " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
