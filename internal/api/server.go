// Package api provides the HTTP server for the reward engine. It exposes
// the engine boundary (grants, queries, shop) as a JSON API for the
// surrounding application, plus Prometheus metrics.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/app/reward"
	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/app/shop"
	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/domain"
)

// Server is the reward engine HTTP API server.
type Server struct {
	engine         *reward.Engine
	shop           *shop.Service
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(engine *reward.Engine, shopSvc *shop.Service) *Server {
	return &Server{engine: engine, shop: shopSvc}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", s.handleRegister)

		r.Route("/rewards", func(r chi.Router) {
			r.Post("/grant", s.handleGrant)
			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/balance", s.handleBalance)
				r.Get("/level", s.handleLevel)
				r.Get("/badges", s.handleUserBadges)
				r.Get("/history", s.handleHistory)
				r.Get("/statistics", s.handleStatistics)
				r.Get("/summary", s.handleSummary)
				r.Get("/progress", s.handleProgress)
			})
		})

		r.Get("/badges", s.handleBadgeCatalog)

		r.Route("/activity", func(r chi.Router) {
			r.Post("/books", s.handleBookAdded)
			r.Post("/books/{bookID}/finish", s.handleBookFinished)
			r.Post("/sessions", s.handleReadingSession)
			r.Post("/tasks", s.handleTaskCompleted)
			r.Post("/quotes", s.handleQuoteVerified)
		})

		r.Route("/shop", func(r chi.Router) {
			r.Get("/items", s.handleShopItems)
			r.Post("/purchase", s.handlePurchase)
			r.Get("/{userID}/owned", s.handleOwned)
		})
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP statuses. Precondition violations
// carry their human-readable reason; anything else is a generic 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientPoints), errors.Is(err, domain.ErrAlreadyOwned):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrZeroPoints):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
