// Package rest exposes the team suggestions over HTTP.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bobylevd/team-balancer/app/store"
)

// NewRouter builds the API router.
func NewRouter(svc *store.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger)

	suggestions := &SuggestionsHandler{svc: svc}
	players := &PlayersHandler{svc: svc}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/suggestions", suggestions.Create)
		r.Get("/suggestions/{id}", suggestions.Get)
		r.Delete("/suggestions/{id}", suggestions.Delete)
		r.Post("/suggestions/{id}/moves", suggestions.Move)

		r.Get("/players", players.List)
		r.Post("/players", players.Register)
		r.Delete("/players/{id}", players.Remove)
	})

	return r
}

// NewMetricsRouter serves the health check and the metrics gathered by g.
func NewMetricsRouter(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
