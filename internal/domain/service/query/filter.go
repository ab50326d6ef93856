package query

import (
	"strings"

	"github.com/shopspring/decimal"

	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/internal/domain/value"
)

// All — значение фильтра "без ограничения".
const All = "all"

const (
	DateRangeLast30   = "last-30"
	DateRangeLast90   = "last-90"
	DateRangeThisYear = "this-year"
	DateRangeLastYear = "last-year"
)

// priceBand — ценовой диапазон. Соседние диапазоны стыкуются без щелей:
// "51-100" означает 50 < price <= 100, иначе цена 50.50 не попала бы никуда.
type priceBand struct {
	min          decimal.Decimal
	minExclusive bool
	max          *decimal.Decimal // nil — без верхней границы
}

func (b priceBand) contains(price decimal.Decimal) bool {
	if b.minExclusive && !price.GreaterThan(b.min) {
		return false
	}
	if price.LessThan(b.min) {
		return false
	}
	return b.max == nil || !price.GreaterThan(*b.max)
}

func band(min, max int64) priceBand {
	upper := decimal.NewFromInt(max)
	return priceBand{min: decimal.NewFromInt(min), max: &upper}
}

// above — диапазон, который начинается сразу после верхней границы
// предыдущего.
func above(prevMax, max int64) priceBand {
	b := band(prevMax, max)
	b.minExclusive = true
	return b
}

func openBand(min int64) priceBand {
	return priceBand{min: decimal.NewFromInt(min)}
}

func openAbove(prevMax int64) priceBand {
	return priceBand{min: decimal.NewFromInt(prevMax), minExclusive: true}
}

// Подписи из интерфейса ("51-100") и округлённые ("50-100") означают одно и
// то же.
//
//nolint:gochecknoglobals
var priceBands = map[string]priceBand{
	"0-50":    band(0, 50),
	"51-100":  above(50, 100),
	"50-100":  above(50, 100),
	"101-200": above(100, 200),
	"100-200": above(100, 200),
	"201-500": above(200, 500),
	"200-500": above(200, 500),
	"201+":    openAbove(200),
	"200+":    openAbove(200),
	"500+":    openBand(500),
}

type predicate func(entity.Deal) bool

func matchNothing(entity.Deal) bool { return false }

func isAll(option string) bool {
	option = strings.TrimSpace(option)
	return option == "" || strings.EqualFold(option, All)
}

// predicates собирает активные фильтры спецификации. Неизвестное значение
// фильтра не отбрасывается молча, а превращается в "ничего не подходит".
func predicates(spec Spec, today value.Date) []predicate {
	var out []predicate

	if term := strings.ToLower(strings.TrimSpace(spec.SearchTerm)); term != "" {
		out = append(out, func(d entity.Deal) bool {
			return strings.Contains(strings.ToLower(d.Name), term) ||
				strings.Contains(strings.ToLower(d.Marketplace.String()), term)
		})
	}

	if !isAll(spec.Status) {
		out = append(out, statusPredicate(spec.Status))
	}

	if !isAll(spec.Marketplace) {
		out = append(out, marketplacePredicate(spec.Marketplace))
	}

	if !isAll(spec.Category) {
		category := strings.TrimSpace(spec.Category)
		out = append(out, func(d entity.Deal) bool {
			return strings.EqualFold(d.Category, category)
		})
	}

	if !isAll(spec.PriceRange) {
		out = append(out, pricePredicate(spec.PriceRange))
	}

	if !isAll(spec.DateRange) {
		out = append(out, datePredicate(spec.DateRange, today))
	}

	if spec.FavoritesOnly {
		out = append(out, func(d entity.Deal) bool { return d.Favorite })
	}

	return out
}

func statusPredicate(option string) predicate {
	status, err := value.ParseStatus(option)
	if err != nil {
		return matchNothing
	}

	return func(d entity.Deal) bool {
		return strings.EqualFold(d.Status.String(), status.String())
	}
}

func marketplacePredicate(option string) predicate {
	marketplace, err := value.ParseMarketplace(option)
	if err != nil {
		return matchNothing
	}

	return func(d entity.Deal) bool {
		return strings.EqualFold(d.Marketplace.String(), marketplace.String())
	}
}

func pricePredicate(option string) predicate {
	b, ok := priceBands[normalizeRange(option)]
	if !ok {
		return matchNothing
	}

	return func(d entity.Deal) bool {
		return b.contains(d.Price)
	}
}

func datePredicate(option string, today value.Date) predicate {
	var since value.Date

	switch strings.ToLower(strings.TrimSpace(option)) {
	case DateRangeLast30:
		since = today.AddDays(-30) //nolint:mnd
	case DateRangeLast90:
		since = today.AddDays(-90) //nolint:mnd
	case DateRangeThisYear:
		since = value.NewDate(today.Year(), 1, 1)
	case DateRangeLastYear:
		// Скользящие 12 месяцев, а не прошлый календарный год.
		since = today.AddYears(-1)
	default:
		return matchNothing
	}

	return func(d entity.Deal) bool {
		return !d.PurchaseDate.Before(since)
	}
}

// normalizeRange: "$0 – $50" -> "0-50".
func normalizeRange(option string) string {
	return strings.NewReplacer(" ", "", "$", "", "–", "-", "—", "-").Replace(strings.ToLower(option))
}
