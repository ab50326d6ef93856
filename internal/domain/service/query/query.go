// Package query строит отображаемое представление коллекции сделок:
// фильтрует, сортирует и считает сводки. Все функции чистые и входной
// снимок не меняют.
package query

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/internal/domain/value"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

const (
	SortByName           = "name"
	SortByMarketplace    = "marketplace"
	SortByPrice          = "price"
	SortByPurchaseDate   = "purchaseDate"
	SortByRefundDeadline = "refundDeadline"
	SortByRefundWindow   = "refundWindow"
	SortByExpiryDate     = "expiryDate"
	SortByStatus         = "status"
	SortByCategory       = "category"
	SortByFavorite       = "favorite"
)

// Spec — спецификация фильтров и сортировки. Пустые строки и "all"
// означают отсутствие фильтра.
type Spec struct {
	SearchTerm    string
	Status        string
	Marketplace   string
	Category      string
	PriceRange    string
	DateRange     string
	FavoritesOnly bool
	SortKey       string
	SortDirection SortDirection
}

type comparator func(a, b entity.Deal) int

//nolint:gochecknoglobals
var comparators = map[string]comparator{
	strings.ToLower(SortByName):        byText(func(d entity.Deal) string { return d.Name }),
	strings.ToLower(SortByMarketplace): byText(func(d entity.Deal) string { return d.Marketplace.String() }),
	strings.ToLower(SortByStatus):      byText(func(d entity.Deal) string { return d.Status.String() }),
	strings.ToLower(SortByCategory):    byText(func(d entity.Deal) string { return d.Category }),
	strings.ToLower(SortByFavorite):    byText(func(d entity.Deal) string { return strconv.FormatBool(d.Favorite) }),
	strings.ToLower(SortByPrice): func(a, b entity.Deal) int {
		return a.Price.Cmp(b.Price)
	},
	strings.ToLower(SortByRefundWindow): func(a, b entity.Deal) int {
		return cmp.Compare(a.RefundWindow, b.RefundWindow)
	},
	strings.ToLower(SortByPurchaseDate): func(a, b entity.Deal) int {
		return a.PurchaseDate.Compare(b.PurchaseDate)
	},
	strings.ToLower(SortByRefundDeadline): func(a, b entity.Deal) int {
		return a.RefundDeadline.Compare(b.RefundDeadline)
	},
	strings.ToLower(SortByExpiryDate): compareExpiry,
}

// SortKeys — ключи, по которым умеет сортировать Query.
func SortKeys() []string {
	return []string{
		SortByName, SortByMarketplace, SortByPrice, SortByPurchaseDate, SortByRefundDeadline,
		SortByRefundWindow, SortByExpiryDate, SortByStatus, SortByCategory, SortByFavorite,
	}
}

func IsSortKey(key string) bool {
	_, ok := comparators[strings.ToLower(strings.TrimSpace(key))]
	return ok
}

// Query возвращает новый срез сделок из snapshot, прошедших все активные
// фильтры, отсортированный по spec.SortKey. Сортировка устойчивая в обе
// стороны: при равных ключах сохраняется порядок snapshot. Пустой или
// неизвестный ключ оставляет порядок snapshot.
func Query(snapshot []entity.Deal, spec Spec, today value.Date) []entity.Deal {
	preds := predicates(spec, today)

	out := lo.FilterMap(snapshot, func(d entity.Deal, _ int) (entity.Deal, bool) {
		for _, match := range preds {
			if !match(d) {
				return entity.Deal{}, false
			}
		}
		return d.Clone(), true
	})

	compare, ok := comparators[strings.ToLower(strings.TrimSpace(spec.SortKey))]
	if !ok {
		return out
	}

	if strings.EqualFold(string(spec.SortDirection), string(SortDesc)) {
		asc := compare
		compare = func(a, b entity.Deal) int { return -asc(a, b) }
	}

	slices.SortStableFunc(out, compare)

	return out
}

func byText(field func(entity.Deal) string) comparator {
	return func(a, b entity.Deal) int {
		return strings.Compare(field(a), field(b))
	}
}

// compareExpiry: сделка без срока действия всегда меньше любой даты.
func compareExpiry(a, b entity.Deal) int {
	switch {
	case !a.HasExpiry() && !b.HasExpiry():
		return 0
	case !a.HasExpiry():
		return -1
	case !b.HasExpiry():
		return 1
	default:
		return a.ExpiryDate.Compare(*b.ExpiryDate)
	}
}
