package handler

import (
	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/internal/domain/service/query"
	"ltd_tracker/internal/domain/value"
)

const (
	dealsPageSize       = 10
	defaultUpcomingDays = 7
)

type dealStore interface {
	ToggleFavorite(id value.DealID) (entity.Deal, error)
}

type dealQuery interface {
	Query(spec query.Spec) ([]entity.Deal, int)
	Summary() query.Summary
	UpcomingRefunds(horizonDays int) []query.UpcomingRefund
}

type Handler struct {
	store dealStore
	query dealQuery
}

func New(store dealStore, query dealQuery) *Handler {
	return &Handler{
		store: store,
		query: query,
	}
}
