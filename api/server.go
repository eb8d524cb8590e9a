/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for frontend
  5. requestLogger: attaches a request-scoped slog.Logger to the context

SECURITY NOTE:
  No authentication middleware. The hosting deployment is expected to
  front this with its own auth; the acting user in the routes is trusted.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/clockwise/reporting-engine/logger"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(requestLogger)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Time report routes
		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/reports/{view}", h.GetReport)
			r.Get("/reports/{view}/previous", h.GetPreviousReport)
			r.Get("/reports/{view}/next", h.GetNextReport)
			r.Post("/entries", h.SubmitEntry)
			r.Delete("/entries/{entryID}", h.DeleteEntry)
		})

		// Vacation routes
		r.Get("/reports/vacations", h.GetVacations)

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/closings", h.CloseMonth)
			r.Delete("/closings", h.OpenMonth)
			r.Get("/closings/{userID}", h.ListClosedMonths)
		})

		// On-call routes
		r.Route("/projects/{id}/oncall", func(r chi.Router) {
			r.Get("/", h.GetOnCall)
			r.Put("/windows", h.SaveWindow)
		})
	})

	return r
}

// requestLogger attaches a request-scoped slog.Logger carrying the chi
// request ID.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLogger := slog.Default().With("request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(logger.AddToContext(r.Context(), ctxLogger)))
	})
}
