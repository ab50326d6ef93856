package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"

	"ltd_tracker/internal/domain"
	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/internal/domain/service/query"
	"ltd_tracker/internal/domain/value"
	"ltd_tracker/pkg/errcodes"
	"ltd_tracker/pkg/httpx/reply"
	"ltd_tracker/pkg/httpx/req"
	"ltd_tracker/pkg/logx"
	"ltd_tracker/pkg/rest"
)

const defaultUpcomingDays = 7

type dealStore interface {
	AddDeal(input entity.DealInput) (entity.Deal, error)
	UpdateDeal(id value.DealID, patch entity.DealPatch) (entity.Deal, error)
	DeleteDeal(id value.DealID)
	ToggleFavorite(id value.DealID) (entity.Deal, error)
	GetDealByID(id value.DealID) (entity.Deal, bool)
}

type dealQuery interface {
	Query(spec query.Spec) ([]entity.Deal, int)
	Summary() query.Summary
	UpcomingRefunds(horizonDays int) []query.UpcomingRefund
}

type DealServer struct {
	store dealStore
	query dealQuery
}

func NewDealServer(store dealStore, query dealQuery) DealServer {
	return DealServer{
		store: store,
		query: query,
	}
}

func (s DealServer) getV1Deals(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	spec, err := parseSpec(r)
	if err != nil {
		return err
	}

	deals, total := s.query.Query(spec)

	reply.JSON(ctx, w, http.StatusOK, rest.DealList{
		Items: newRESTDeals(deals),
		Total: total,
	})

	return nil
}

func (s DealServer) postV1Deals(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CreateDealRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	d, err := s.store.AddDeal(newDomainDealInput(request))
	if err != nil {
		return fmt.Errorf("store.AddDeal: %w", err)
	}

	logger(ctx).Info("deal created", logx.Stringer(logx.FieldDealID, d.ID))

	reply.JSON(ctx, w, http.StatusCreated, newRESTDeal(d))

	return nil
}

func (s DealServer) getV1Deal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id := dealID(r)

	d, ok := s.store.GetDealByID(id)
	if !ok {
		return &domain.NotFoundError{ID: id}
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeal(d))

	return nil
}

func (s DealServer) patchV1Deal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.UpdateDealRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	d, err := s.store.UpdateDeal(dealID(r), newDomainDealPatch(request))
	if err != nil {
		return fmt.Errorf("store.UpdateDeal: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeal(d))

	return nil
}

func (s DealServer) deleteV1Deal(w http.ResponseWriter, r *http.Request) error {
	s.store.DeleteDeal(dealID(r))

	reply.NoContent(w)

	return nil
}

func (s DealServer) postV1DealFavorite(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	d, err := s.store.ToggleFavorite(dealID(r))
	if err != nil {
		return fmt.Errorf("store.ToggleFavorite: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeal(d))

	return nil
}

func (s DealServer) getV1DealsStats(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, newRESTStats(s.query.Summary()))

	return nil
}

func (s DealServer) getV1DealsUpcomingRefunds(w http.ResponseWriter, r *http.Request) error {
	days := defaultUpcomingDays

	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return invalidQuery("days must be a non-negative integer")
		}

		days = parsed
	}

	reply.JSON(r.Context(), w, http.StatusOK, newRESTUpcomingRefunds(s.query.UpcomingRefunds(days)))

	return nil
}

func dealID(r *http.Request) value.DealID {
	return value.DealID(chi.URLParam(r, "id"))
}

// parseSpec собирает query.Spec из параметров запроса. Неизвестные значения
// фильтров не ошибка: такой фильтр просто ничего не пропускает.
func parseSpec(r *http.Request) (query.Spec, error) {
	params := r.URL.Query()

	spec := query.Spec{
		SearchTerm:    params.Get("search"),
		Status:        params.Get("status"),
		Marketplace:   params.Get("marketplace"),
		Category:      params.Get("category"),
		PriceRange:    params.Get("priceRange"),
		DateRange:     params.Get("dateRange"),
		SortKey:       params.Get("sortBy"),
		SortDirection: query.SortDirection(strings.ToLower(strings.TrimSpace(params.Get("sortDir")))),
	}

	switch spec.SortDirection {
	case "", query.SortAsc, query.SortDesc:
	default:
		return query.Spec{}, invalidQuery("sortDir must be asc or desc")
	}

	if raw := params.Get("favorites"); raw != "" {
		favorites, err := strconv.ParseBool(raw)
		if err != nil {
			return query.Spec{}, invalidQuery("favorites must be a boolean")
		}

		spec.FavoritesOnly = favorites
	}

	return spec, nil
}

func invalidQuery(description string) error {
	return failure.NewInvalidArgumentError(
		"invalid query parameter",
		failure.WithCode(errcodes.InvalidQuery),
		failure.WithDescription(description),
	)
}
