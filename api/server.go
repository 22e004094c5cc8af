/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Wires URLs to handlers. Everything domain-shaped lives behind
  /api/users/{userID}; the allow-list middleware guards that whole subtree.

MIDDLEWARE STACK:
  1. RequestID:     unique id per request for tracing
  2. Recoverer:     panic -> 500 instead of crash
  3. RequestLogger: structured zap line per request
  4. CORS:          configured origins only
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/clockwork/attendance-engine/config"
)

// NewRouter creates the router with all routes configured.
func NewRouter(h *Handler, logger *zap.Logger, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/users/{userID}", func(r chi.Router) {
		r.Use(Authorize(cfg.Auth))

		r.Post("/shift", h.AssignShift)
		r.Post("/check-in", h.CheckIn)
		r.Post("/check-out", h.CheckOut)
		r.Get("/status", h.Status)
		r.Get("/debt", h.Debt)
		r.Post("/vacations", h.RequestVacation)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/weekly", h.WeeklyReport)
			r.Get("/monthly", h.MonthlyReport)
			r.Get("/analytics", h.Analytics)
		})
	})

	return r
}
