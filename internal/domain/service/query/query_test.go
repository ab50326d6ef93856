package query_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/internal/domain/service/query"
	"ltd_tracker/internal/domain/value"
)

var today = value.MustParseDate("2024-03-10") //nolint:gochecknoglobals

type dealOpt func(*entity.Deal)

func newDeal(id, name string, opts ...dealOpt) entity.Deal {
	d := entity.Deal{
		ID:             value.DealID(id),
		Name:           name,
		Marketplace:    value.MarketplaceAppSumo,
		Price:          decimal.NewFromInt(50),
		PurchaseDate:   value.MustParseDate("2024-03-01"),
		RefundWindow:   30,
		RefundDeadline: value.MustParseDate("2024-03-31"),
		Category:       "Design",
		Status:         value.StatusActive,
	}

	for _, opt := range opts {
		opt(&d)
	}

	return d
}

func price(p string) dealOpt {
	return func(d *entity.Deal) { d.Price = decimal.RequireFromString(p) }
}

func marketplace(m value.Marketplace) dealOpt {
	return func(d *entity.Deal) { d.Marketplace = m }
}

func status(s value.Status) dealOpt {
	return func(d *entity.Deal) { d.Status = s }
}

func purchased(date string) dealOpt {
	return func(d *entity.Deal) { d.PurchaseDate = value.MustParseDate(date) }
}

func expires(date string) dealOpt {
	return func(d *entity.Deal) {
		e := value.MustParseDate(date)
		d.ExpiryDate = &e
	}
}

func category(c string) dealOpt {
	return func(d *entity.Deal) { d.Category = c }
}

func favorite() dealOpt {
	return func(d *entity.Deal) { d.Favorite = true }
}

func ids(deals []entity.Deal) []string {
	return lo.Map(deals, func(d entity.Deal, _ int) string { return d.ID.String() })
}

func TestQueryFilters(t *testing.T) {
	rq := require.New(t)

	snapshot := []entity.Deal{
		newDeal("a", "DesignPro Suite", price("69"), status(value.StatusActive), favorite(),
			purchased("2024-03-05")),
		newDeal("b", "Copy Writer", price("40"), marketplace(value.MarketplaceDealMirror),
			status(value.StatusRefundable), category("Writing"), purchased("2023-12-01")),
		newDeal("c", "Pixel Tool", price("500"), marketplace(value.MarketplaceStackSocial),
			status(value.StatusExpired), purchased("2023-01-15")),
		newDeal("d", "Mirror Cam", price("50.00"), marketplace(value.MarketplaceDealMirror),
			status(value.StatusActive), purchased("2022-05-01")),
	}

	testCases := []struct {
		name string
		spec query.Spec
		want []string
	}{
		{name: "Empty spec keeps everything", spec: query.Spec{}, want: []string{"a", "b", "c", "d"}},
		{
			name: "All everywhere",
			spec: query.Spec{Status: "all", Marketplace: "All", Category: "all", PriceRange: "all", DateRange: "all"},
			want: []string{"a", "b", "c", "d"},
		},
		{name: "Search by name", spec: query.Spec{SearchTerm: "design"}, want: []string{"a"}},
		{name: "Search by marketplace", spec: query.Spec{SearchTerm: "MIRROR"}, want: []string{"b", "d"}},
		{name: "Search ignores category", spec: query.Spec{SearchTerm: "writing"}, want: []string{}},
		{name: "Status", spec: query.Spec{Status: "active"}, want: []string{"a", "d"}},
		{name: "Marketplace", spec: query.Spec{Marketplace: "DealMirror"}, want: []string{"b", "d"}},
		{name: "Category", spec: query.Spec{Category: "writing"}, want: []string{"b"}},
		{name: "Price lower band inclusive", spec: query.Spec{PriceRange: "0-50"}, want: []string{"b", "d"}},
		{name: "Price middle band", spec: query.Spec{PriceRange: "51-100"}, want: []string{"a"}},
		{name: "Price dollars and en dash", spec: query.Spec{PriceRange: "$0 – $50"}, want: []string{"b", "d"}},
		{name: "Price open band", spec: query.Spec{PriceRange: "500+"}, want: []string{"c"}},
		{name: "Price 201 and up", spec: query.Spec{PriceRange: "201+"}, want: []string{"c"}},
		{name: "Last 30 days", spec: query.Spec{DateRange: "last-30"}, want: []string{"a"}},
		{name: "Last 90 days", spec: query.Spec{DateRange: "last-90"}, want: []string{"a"}},
		{name: "This year", spec: query.Spec{DateRange: "this-year"}, want: []string{"a"}},
		{name: "Last year is rolling", spec: query.Spec{DateRange: "last-year"}, want: []string{"a", "b"}},
		{name: "Favorites only", spec: query.Spec{FavoritesOnly: true}, want: []string{"a"}},
		{
			name: "Conjunction",
			spec: query.Spec{Marketplace: "DealMirror", Status: "Active", PriceRange: "0-50"},
			want: []string{"d"},
		},
		{name: "Unknown status", spec: query.Spec{Status: "Pending"}, want: []string{}},
		{name: "Unknown marketplace", spec: query.Spec{Marketplace: "Bazaar"}, want: []string{}},
		{name: "Unknown price range", spec: query.Spec{PriceRange: "cheap"}, want: []string{}},
		{name: "Unknown date range", spec: query.Spec{DateRange: "yesterday"}, want: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			got := query.Query(snapshot, tc.spec, today)
			rq.Equal(tc.want, ids(got))
		})
	}
}

func TestQueryFractionalPricesBetweenBands(t *testing.T) {
	rq := require.New(t)

	snapshot := []entity.Deal{
		newDeal("a", "Half Dollar Over", price("50.50")),
		newDeal("b", "Almost Hundred One", price("100.99")),
		newDeal("c", "Past Two Hundred", price("200.50")),
		newDeal("d", "Round Hundred", price("100")),
	}

	testCases := []struct {
		rangeLabel string
		want       []string
	}{
		{rangeLabel: "0-50", want: []string{}},
		{rangeLabel: "51-100", want: []string{"a", "d"}},
		{rangeLabel: "50-100", want: []string{"a", "d"}},
		{rangeLabel: "101-200", want: []string{"b"}},
		{rangeLabel: "100-200", want: []string{"b"}},
		{rangeLabel: "201-500", want: []string{"c"}},
		{rangeLabel: "201+", want: []string{"c"}},
		{rangeLabel: "200+", want: []string{"c"}},
	}

	for _, tc := range testCases {
		t.Run(tc.rangeLabel, func(*testing.T) {
			got := query.Query(snapshot, query.Spec{PriceRange: tc.rangeLabel}, today)
			rq.Equal(tc.want, ids(got))
		})
	}
}

func TestQueryPriceBandScenario(t *testing.T) {
	rq := require.New(t)

	snapshot := []entity.Deal{
		newDeal("cheap", "A", price("40")),
		newDeal("pricey", "B", price("80")),
	}

	got := query.Query(snapshot, query.Spec{PriceRange: "0-50"}, today)
	rq.Equal([]string{"cheap"}, ids(got))
}

func TestQuerySort(t *testing.T) {
	rq := require.New(t)

	snapshot := []entity.Deal{
		newDeal("a", "Beta", price("20"), expires("2025-01-01")),
		newDeal("b", "alpha", price("10")),
		newDeal("c", "Gamma", price("20"), expires("2024-06-01")),
		newDeal("d", "Delta", price("5"), purchased("2023-01-01")),
	}

	testCases := []struct {
		name string
		spec query.Spec
		want []string
	}{
		{
			name: "Price ascending keeps ties in input order",
			spec: query.Spec{SortKey: "price", SortDirection: query.SortAsc},
			want: []string{"d", "b", "a", "c"},
		},
		{
			name: "Price descending keeps ties in input order",
			spec: query.Spec{SortKey: "price", SortDirection: query.SortDesc},
			want: []string{"a", "c", "b", "d"},
		},
		{
			name: "Name is case sensitive",
			spec: query.Spec{SortKey: "name", SortDirection: query.SortAsc},
			want: []string{"a", "d", "c", "b"},
		},
		{
			name: "Missing expiry sorts lowest",
			spec: query.Spec{SortKey: "expiryDate", SortDirection: query.SortAsc},
			want: []string{"b", "d", "c", "a"},
		},
		{
			name: "Missing expiry last when descending",
			spec: query.Spec{SortKey: "expirydate", SortDirection: query.SortDesc},
			want: []string{"a", "c", "b", "d"},
		},
		{
			name: "Purchase date",
			spec: query.Spec{SortKey: query.SortByPurchaseDate, SortDirection: query.SortAsc},
			want: []string{"d", "a", "b", "c"},
		},
		{
			name: "Unknown key keeps input order",
			spec: query.Spec{SortKey: "popularity", SortDirection: query.SortDesc},
			want: []string{"a", "b", "c", "d"},
		},
		{
			name: "Empty key keeps input order",
			spec: query.Spec{},
			want: []string{"a", "b", "c", "d"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Equal(tc.want, ids(query.Query(snapshot, tc.spec, today)))
		})
	}
}

func TestQueryIsPure(t *testing.T) {
	rq := require.New(t)

	snapshot := []entity.Deal{
		newDeal("a", "Beta", price("20"), expires("2025-01-01")),
		newDeal("b", "Alpha", price("10")),
		newDeal("c", "Gamma", price("30")),
	}

	before := make([]entity.Deal, len(snapshot))
	for i, d := range snapshot {
		before[i] = d.Clone()
	}

	spec := query.Spec{SortKey: "name", SortDirection: query.SortAsc, PriceRange: "0-50"}

	first := query.Query(snapshot, spec, today)
	second := query.Query(snapshot, spec, today)

	rq.Equal(first, second)
	rq.Equal(before, snapshot)

	first[0].Name = "changed"
	*first[1].ExpiryDate = value.MustParseDate("1999-01-01")

	rq.Equal(before, snapshot)
}

func TestQueryOutputIsSubset(t *testing.T) {
	rq := require.New(t)

	snapshot := []entity.Deal{
		newDeal("a", "One", price("10")),
		newDeal("b", "Two", price("300")),
		newDeal("c", "Three", price("30")),
	}

	got := query.Query(snapshot, query.Spec{PriceRange: "0-50", SortKey: "price", SortDirection: query.SortDesc}, today)

	rq.Len(got, 2)
	rq.Subset(ids(snapshot), ids(got))
	rq.Equal([]string{"c", "a"}, ids(got))
}

func TestSortKeys(t *testing.T) {
	rq := require.New(t)

	for _, key := range query.SortKeys() {
		rq.True(query.IsSortKey(key), key)
	}

	rq.True(query.IsSortKey(" RefundDeadline "))
	rq.False(query.IsSortKey("popularity"))
}
