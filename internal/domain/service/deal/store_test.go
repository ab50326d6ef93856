package deal_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ltd_tracker/internal/domain"
	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/internal/domain/service/deal"
	"ltd_tracker/internal/domain/value"
)

var testNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC) //nolint:gochecknoglobals

func newTestStore() *deal.Store {
	var seq int

	return deal.NewStore().
		WithClock(func() time.Time { return testNow }).
		WithIDGenerator(func() value.DealID {
			seq++
			return value.DealID(fmt.Sprintf("deal-%d", seq))
		})
}

func ptr[T any](v T) *T {
	return &v
}

func validInput() entity.DealInput {
	return entity.DealInput{
		Name:         "X",
		Marketplace:  "AppSumo",
		Price:        ptr(decimal.NewFromInt(50)),
		PurchaseDate: "2024-01-01",
		Category:     "Design",
	}
}

func TestAddDealDefaults(t *testing.T) {
	rq := require.New(t)
	store := newTestStore()

	d, err := store.AddDeal(validInput())
	rq.NoError(err)

	rq.Equal(value.DealID("deal-1"), d.ID)
	rq.Equal(30, d.RefundWindow)
	rq.Equal("2024-01-31", d.RefundDeadline.String())
	rq.Equal(value.StatusActive, d.Status)
	rq.False(d.Favorite)
	rq.Nil(d.ExpiryDate)
	rq.Equal(testNow, d.CreatedAt)
	rq.Equal(testNow, d.UpdatedAt)

	stored, ok := store.GetDealByID(d.ID)
	rq.True(ok)
	rq.Equal(d, stored)
}

func TestAddDealRefundDeadline(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name         string
		purchaseDate string
		refundWindow *int
		deadline     string
	}{
		{name: "Default window", purchaseDate: "2024-01-01", deadline: "2024-01-31"},
		{name: "Zero window", purchaseDate: "2024-01-01", refundWindow: ptr(0), deadline: "2024-01-01"},
		{name: "Across leap day", purchaseDate: "2024-02-15", refundWindow: ptr(14), deadline: "2024-02-29"},
		{name: "Across year", purchaseDate: "2023-12-20", refundWindow: ptr(60), deadline: "2024-02-18"},
		{name: "Sample deal", purchaseDate: "2023-10-15", refundWindow: ptr(30), deadline: "2023-11-14"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			input := validInput()
			input.PurchaseDate = tc.purchaseDate
			input.RefundWindow = tc.refundWindow

			d, err := newTestStore().AddDeal(input)
			rq.NoError(err)
			rq.Equal(tc.deadline, d.RefundDeadline.String())
		})
	}
}

func TestAddDealValidation(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name   string
		mutate func(*entity.DealInput)
		fields []string
	}{
		{
			name:   "Empty name",
			mutate: func(in *entity.DealInput) { in.Name = "" },
			fields: []string{"name"},
		},
		{
			name:   "Blank name",
			mutate: func(in *entity.DealInput) { in.Name = "   " },
			fields: []string{"name"},
		},
		{
			name:   "Missing price",
			mutate: func(in *entity.DealInput) { in.Price = nil },
			fields: []string{"price"},
		},
		{
			name:   "Zero price",
			mutate: func(in *entity.DealInput) { in.Price = ptr(decimal.Zero) },
			fields: []string{"price"},
		},
		{
			name:   "Negative price",
			mutate: func(in *entity.DealInput) { in.Price = ptr(decimal.NewFromInt(-5)) },
			fields: []string{"price"},
		},
		{
			name:   "Unparseable purchase date",
			mutate: func(in *entity.DealInput) { in.PurchaseDate = "2024-13-45" },
			fields: []string{"purchaseDate"},
		},
		{
			name:   "Unknown marketplace",
			mutate: func(in *entity.DealInput) { in.Marketplace = "Bazaar" },
			fields: []string{"marketplace"},
		},
		{
			name:   "Negative refund window",
			mutate: func(in *entity.DealInput) { in.RefundWindow = ptr(-1) },
			fields: []string{"refundWindow"},
		},
		{
			name:   "Refund window over ten years",
			mutate: func(in *entity.DealInput) { in.RefundWindow = ptr(3651) },
			fields: []string{"refundWindow"},
		},
		{
			name:   "Huge refund window",
			mutate: func(in *entity.DealInput) { in.RefundWindow = ptr(1 << 40) },
			fields: []string{"refundWindow"},
		},
		{
			name:   "Deadline past year 9999",
			mutate: func(in *entity.DealInput) { in.PurchaseDate = "9999-12-20" },
			fields: []string{"refundWindow"},
		},
		{
			name:   "Price with fractions of a cent",
			mutate: func(in *entity.DealInput) { in.Price = ptr(decimal.RequireFromString("0.001")) },
			fields: []string{"price"},
		},
		{
			name:   "Price beyond column precision",
			mutate: func(in *entity.DealInput) { in.Price = ptr(decimal.New(1, 11)) },
			fields: []string{"price"},
		},
		{
			name:   "Bad expiry and status",
			mutate: func(in *entity.DealInput) { in.ExpiryDate = "soon"; in.Status = "Pending" },
			fields: []string{"expiryDate", "status"},
		},
		{
			name: "Everything missing",
			mutate: func(in *entity.DealInput) {
				*in = entity.DealInput{}
			},
			fields: []string{"name", "marketplace", "price", "purchaseDate", "category"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			store := newTestStore()
			input := validInput()
			tc.mutate(&input)

			_, err := store.AddDeal(input)
			rq.Error(err)

			var verr *domain.ValidationError
			rq.ErrorAs(err, &verr)
			rq.Len(verr.Fields, len(tc.fields))

			for _, field := range tc.fields {
				rq.Contains(verr.Fields, field)
			}

			rq.Empty(store.ListDeals())
			rq.Zero(store.Revision())
		})
	}
}

func TestAddDealBoundaryValues(t *testing.T) {
	rq := require.New(t)
	store := newTestStore()

	input := validInput()
	input.Price = ptr(decimal.RequireFromString("9999999999.99"))
	input.RefundWindow = ptr(3650)

	d, err := store.AddDeal(input)
	rq.NoError(err)
	rq.Equal("9999999999.99", d.Price.StringFixed(2))
	rq.Equal("2033-12-29", d.RefundDeadline.String())
}

func TestAddDealBoundaryMessages(t *testing.T) {
	rq := require.New(t)
	store := newTestStore()

	input := validInput()
	input.RefundWindow = ptr(3651)
	input.Price = ptr(decimal.RequireFromString("12.345"))

	_, err := store.AddDeal(input)

	var verr *domain.ValidationError
	rq.ErrorAs(err, &verr)
	rq.Equal("Refund window cannot exceed 3650 days", verr.Fields["refundWindow"])
	rq.Equal("Price can have at most 2 decimal places", verr.Fields["price"])
}

func TestAddDealEmptyNameMessage(t *testing.T) {
	rq := require.New(t)
	store := newTestStore()

	input := validInput()
	input.Name = ""

	_, err := store.AddDeal(input)
	rq.ErrorContains(err, "name: Deal name is required")
	rq.True(domain.IsValidationError(err))
	rq.Empty(store.ListDeals())
}

func TestAddDealNormalizesEnums(t *testing.T) {
	rq := require.New(t)

	input := validInput()
	input.Marketplace = " appsumo "
	input.Status = "expiring soon"
	input.ExpiryDate = "2025-01-01"

	d, err := newTestStore().AddDeal(input)
	rq.NoError(err)
	rq.Equal(value.MarketplaceAppSumo, d.Marketplace)
	rq.Equal(value.StatusExpiringSoon, d.Status)
	rq.NotNil(d.ExpiryDate)
	rq.Equal("2025-01-01", d.ExpiryDate.String())
}

func TestAddDealPrependsNewest(t *testing.T) {
	rq := require.New(t)
	store := newTestStore()

	for _, name := range []string{"first", "second", "third"} {
		input := validInput()
		input.Name = name

		_, err := store.AddDeal(input)
		rq.NoError(err)
	}

	names := make([]string, 0, 3)
	for _, d := range store.ListDeals() {
		names = append(names, d.Name)
	}

	rq.Equal([]string{"third", "second", "first"}, names)
}

func TestUpdateDealRecomputesDeadline(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name     string
		patch    entity.DealPatch
		deadline string
		window   int
	}{
		{
			name:     "Purchase date keeps existing window",
			patch:    entity.DealPatch{PurchaseDate: ptr("2024-03-01")},
			deadline: "2024-04-15",
			window:   45,
		},
		{
			name:     "Refund window keeps existing purchase date",
			patch:    entity.DealPatch{RefundWindow: ptr(14)},
			deadline: "2024-01-15",
			window:   14,
		},
		{
			name:     "Both fields",
			patch:    entity.DealPatch{PurchaseDate: ptr("2024-02-01"), RefundWindow: ptr(0)},
			deadline: "2024-02-01",
			window:   0,
		},
		{
			name:     "Unrelated field keeps deadline",
			patch:    entity.DealPatch{Name: ptr("Renamed")},
			deadline: "2024-02-15",
			window:   45,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			store := newTestStore()

			input := validInput()
			input.RefundWindow = ptr(45)

			created, err := store.AddDeal(input)
			rq.NoError(err)
			rq.Equal("2024-02-15", created.RefundDeadline.String())

			updated, err := store.UpdateDeal(created.ID, tc.patch)
			rq.NoError(err)
			rq.Equal(tc.deadline, updated.RefundDeadline.String())
			rq.Equal(tc.window, updated.RefundWindow)
			rq.Equal(created.ID, updated.ID)
			rq.Equal(created.CreatedAt, updated.CreatedAt)

			stored, ok := store.GetDealByID(created.ID)
			rq.True(ok)
			rq.Equal(updated, stored)
		})
	}
}

func TestUpdateDealShallowMerge(t *testing.T) {
	rq := require.New(t)
	store := newTestStore()

	input := validInput()
	input.ExpiryDate = "2025-01-01"
	input.Notes = "code ABC"

	created, err := store.AddDeal(input)
	rq.NoError(err)

	updated, err := store.UpdateDeal(created.ID, entity.DealPatch{
		Price:      ptr(decimal.RequireFromString("59.99")),
		Status:     ptr("Refundable"),
		ExpiryDate: ptr(""),
	})
	rq.NoError(err)

	rq.Equal("59.99", updated.Price.String())
	rq.Equal(value.StatusRefundable, updated.Status)
	rq.Nil(updated.ExpiryDate)
	rq.Equal("code ABC", updated.Notes)
	rq.Equal(created.Name, updated.Name)
	rq.Equal(created.Category, updated.Category)
}

func TestUpdateDealNotFound(t *testing.T) {
	rq := require.New(t)
	store := newTestStore()

	created, err := store.AddDeal(validInput())
	rq.NoError(err)

	before := store.ListDeals()
	revision := store.Revision()

	_, err = store.UpdateDeal("missing", entity.DealPatch{Name: ptr("Y")})
	rq.Error(err)
	rq.True(domain.IsNotFoundError(err))

	var notFound *domain.NotFoundError
	rq.ErrorAs(err, &notFound)
	rq.Equal(value.DealID("missing"), notFound.ID)

	rq.Equal(before, store.ListDeals())
	rq.Equal(revision, store.Revision())

	stored, ok := store.GetDealByID(created.ID)
	rq.True(ok)
	rq.Equal("X", stored.Name)
}

func TestUpdateDealValidationLeavesRecordUntouched(t *testing.T) {
	rq := require.New(t)
	store := newTestStore()

	created, err := store.AddDeal(validInput())
	rq.NoError(err)

	_, err = store.UpdateDeal(created.ID, entity.DealPatch{
		Name:  ptr("Renamed"),
		Price: ptr(decimal.Zero),
	})
	rq.True(domain.IsValidationError(err))

	stored, ok := store.GetDealByID(created.ID)
	rq.True(ok)
	rq.Equal(created, stored)
}

func TestDeleteDealIdempotent(t *testing.T) {
	rq := require.New(t)
	store := newTestStore()

	first, err := store.AddDeal(validInput())
	rq.NoError(err)

	second, err := store.AddDeal(validInput())
	rq.NoError(err)

	store.DeleteDeal(first.ID)
	once := store.ListDeals()
	revision := store.Revision()

	store.DeleteDeal(first.ID)
	store.DeleteDeal("never-existed")

	rq.Equal(once, store.ListDeals())
	rq.Equal(revision, store.Revision())
	rq.Len(once, 1)
	rq.Equal(second.ID, once[0].ID)

	_, ok := store.GetDealByID(first.ID)
	rq.False(ok)
}

func TestToggleFavorite(t *testing.T) {
	rq := require.New(t)
	store := newTestStore()

	created, err := store.AddDeal(validInput())
	rq.NoError(err)

	toggled, err := store.ToggleFavorite(created.ID)
	rq.NoError(err)
	rq.True(toggled.Favorite)

	toggled, err = store.ToggleFavorite(created.ID)
	rq.NoError(err)
	rq.False(toggled.Favorite)

	_, err = store.ToggleFavorite("missing")
	rq.True(domain.IsNotFoundError(err))
}

func TestGetDealByIDMissing(t *testing.T) {
	rq := require.New(t)

	d, ok := newTestStore().GetDealByID("missing")
	rq.False(ok)
	rq.Equal(entity.Deal{}, d)
}

func TestListDealsIsSnapshot(t *testing.T) {
	rq := require.New(t)
	store := newTestStore()

	input := validInput()
	input.ExpiryDate = "2025-01-01"

	created, err := store.AddDeal(input)
	rq.NoError(err)

	list := store.ListDeals()
	list[0].Name = "mutated"
	*list[0].ExpiryDate = value.MustParseDate("1999-01-01")
	list = append(list, entity.Deal{ID: "ghost"})

	stored, ok := store.GetDealByID(created.ID)
	rq.True(ok)
	rq.Equal("X", stored.Name)
	rq.Equal("2025-01-01", stored.ExpiryDate.String())
	rq.Len(store.ListDeals(), 1)
	rq.Len(list, 2)
}

func TestSubscribersReceiveEvents(t *testing.T) {
	rq := require.New(t)
	store := newTestStore()

	var events []deal.Event

	unsubscribe := store.Subscribe(func(e deal.Event) {
		// Подписчику разрешено читать хранилище.
		rq.Equal(e.Revision, store.Revision())
		events = append(events, e)
	})

	created, err := store.AddDeal(validInput())
	rq.NoError(err)

	_, err = store.UpdateDeal(created.ID, entity.DealPatch{Name: ptr("Y")})
	rq.NoError(err)

	_, err = store.ToggleFavorite(created.ID)
	rq.NoError(err)

	_, err = store.AddDeal(entity.DealInput{})
	rq.Error(err)

	store.DeleteDeal(created.ID)
	store.DeleteDeal(created.ID)

	unsubscribe()

	_, err = store.AddDeal(validInput())
	rq.NoError(err)

	rq.Len(events, 4)

	types := []deal.EventType{events[0].Type, events[1].Type, events[2].Type, events[3].Type}
	rq.Equal([]deal.EventType{deal.EventCreated, deal.EventUpdated, deal.EventFavoriteToggled, deal.EventDeleted}, types)

	for i, e := range events {
		rq.Equal(uint64(i+1), e.Revision)
		rq.Equal(created.ID, e.DealID)
	}

	rq.Len(events[0].Snapshot, 1)
	rq.Equal("Y", events[1].Snapshot[0].Name)
	rq.True(events[2].Snapshot[0].Favorite)
	rq.Empty(events[3].Snapshot)
}

func TestNetEffectOfMutations(t *testing.T) {
	rq := require.New(t)
	store := newTestStore()

	a, err := store.AddDeal(validInput())
	rq.NoError(err)

	b, err := store.AddDeal(validInput())
	rq.NoError(err)

	c, err := store.AddDeal(validInput())
	rq.NoError(err)

	_, err = store.UpdateDeal(b.ID, entity.DealPatch{Name: ptr("B")})
	rq.NoError(err)

	store.DeleteDeal(a.ID)

	_, err = store.ToggleFavorite(c.ID)
	rq.NoError(err)

	list := store.ListDeals()
	rq.Len(list, 2)
	rq.Equal(c.ID, list[0].ID)
	rq.True(list[0].Favorite)
	rq.Equal(b.ID, list[1].ID)
	rq.Equal("B", list[1].Name)
}

func TestLoad(t *testing.T) {
	rq := require.New(t)
	store := newTestStore()

	createdAt := testNow.Add(-time.Hour)
	expiry := value.MustParseDate("2024-10-15")

	err := store.Load([]entity.Deal{
		{
			ID:             "persisted-1",
			Name:           "DesignPro Suite",
			Marketplace:    value.MarketplaceAppSumo,
			Price:          decimal.NewFromInt(69),
			PurchaseDate:   value.MustParseDate("2023-10-15"),
			RefundWindow:   30,
			RefundDeadline: value.MustParseDate("2000-01-01"),
			ExpiryDate:     &expiry,
			Category:       "Design",
			Status:         value.StatusActive,
			Favorite:       true,
			CreatedAt:      createdAt,
			UpdatedAt:      createdAt,
		},
	})
	rq.NoError(err)

	d, ok := store.GetDealByID("persisted-1")
	rq.True(ok)
	rq.Equal("2023-11-14", d.RefundDeadline.String())
	rq.True(d.Favorite)
	rq.Equal(createdAt, d.CreatedAt)
	rq.Equal(uint64(1), store.Revision())
}

func TestLoadRejectsBadSnapshot(t *testing.T) {
	rq := require.New(t)

	good := entity.Deal{
		ID:           "persisted-1",
		Name:         "A",
		Marketplace:  value.MarketplaceAppSumo,
		Price:        decimal.NewFromInt(10),
		PurchaseDate: value.MustParseDate("2024-01-01"),
		Category:     "Design",
	}

	invalid := good
	invalid.ID = "persisted-2"
	invalid.Price = decimal.Zero

	noID := good
	noID.ID = ""

	testCases := []struct {
		name  string
		deals []entity.Deal
	}{
		{name: "Duplicate id", deals: []entity.Deal{good, good}},
		{name: "Invalid record", deals: []entity.Deal{good, invalid}},
		{name: "Missing id", deals: []entity.Deal{noID}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			store := newTestStore()

			existing, err := store.AddDeal(validInput())
			rq.NoError(err)

			rq.Error(store.Load(tc.deals))

			list := store.ListDeals()
			rq.Len(list, 1)
			rq.Equal(existing.ID, list[0].ID)
		})
	}
}
