// Package api provides HTTP router setup.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/veridash/veridash/internal/config"
	"github.com/veridash/veridash/internal/controller"
	"github.com/veridash/veridash/internal/history"
	"github.com/veridash/veridash/internal/notify"
)

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(cfg *config.Config, ctrl *controller.Controller, notifier *notify.Notifier, store history.Store) http.Handler {
	r := chi.NewRouter()

	handler := NewHandler(ctrl, notifier, store, cfg.Export.Dir)

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)

		r.Group(func(r chi.Router) {
			r.Use(RateLimitMiddleware(cfg.RateLimits.RequestsPerMinute))

			// Submission lifecycle
			r.Post("/verify/text", handler.SubmitText)
			r.Post("/verify/file", handler.SubmitFile)
			r.Get("/state", handler.GetState)
			r.Post("/clear", handler.Clear)
			r.Post("/toast/dismiss", handler.DismissToast)

			// Export
			r.Get("/export/json", handler.ExportJSON)
			r.Get("/export/summary", handler.ExportSummary)
			r.Post("/export/save", handler.SaveExport)

			// Archive
			r.Get("/reports", handler.ListReports)
			r.Get("/reports/{id}", handler.GetReport)
		})
	})

	return r
}
