package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"saltmarket/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) { //nolint:funlen
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Route("/offers", func(r chi.Router) {
				r.Post("/", handler(s.postV1Offer))
				r.Get("/", handler(s.getV1Offers))
				r.Get("/ranked", handler(s.getV1OffersRanked))
				r.Get("/{id}", handler(s.getV1Offer))
			})

			r.Route("/deals", func(r chi.Router) {
				r.Post("/", handler(s.postV1Deal))
				r.Get("/", handler(s.getV1Deals))
				r.Get("/{id}", handler(s.getV1Deal))
				r.Patch("/{id}", handler(s.patchV1Deal))
				r.Post("/{id}/accept", handler(s.postV1DealAccept))
				r.Post("/{id}/reject", handler(s.postV1DealReject))
				r.Post("/{id}/complete", handler(s.postV1DealComplete))
				r.Post("/{id}/counter", handler(s.postV1DealCounter))
			})

			r.Route("/negotiations", func(r chi.Router) {
				r.Post("/review", handler(s.postV1NegotiationReview))
				r.Post("/accept", handler(s.postV1NegotiationAccept))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", handler(s.getV1Notifications))
				r.Post("/read-all", handler(s.postV1NotificationsReadAll))
				r.Post("/{id}/read", handler(s.postV1NotificationRead))
			})

			r.Route("/landowners", func(r chi.Router) {
				r.Get("/{id}/summary", handler(s.getV1LandownerSummary))
				r.Post("/{id}/prediction/refresh", handler(s.postV1LandownerRefreshPrediction))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
