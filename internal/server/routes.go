package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ltd_tracker/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Route("/deals", func(r chi.Router) {
				r.Get("/", handler(s.getV1Deals))
				r.Post("/", handler(s.postV1Deals))
				r.Get("/stats", handler(s.getV1DealsStats))
				r.Get("/refunds/upcoming", handler(s.getV1DealsUpcomingRefunds))

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", handler(s.getV1Deal))
					r.Patch("/", handler(s.patchV1Deal))
					r.Delete("/", handler(s.deleteV1Deal))
					r.Post("/favorite", handler(s.postV1DealFavorite))
				})
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, toHTTPError(err))
		}
	}
}
