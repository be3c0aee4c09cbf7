// Package httptransport serves the ops/admin surface: health, metrics, and
// token-guarded read access to the directory for operators. The bot itself
// never goes through HTTP handlers.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dialbook/internal/platform/metrics"
	"dialbook/internal/platform/middleware"
)

// NewRouter wires the ops endpoints. Admin routes share one static-token
// middleware; health and metrics stay open for probes and scrapers.
func NewRouter(h *Handler, m *metrics.Metrics, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(adminToken, logger))
		r.Get("/admin/records", h.handleListRecords)
		r.Get("/admin/records/{identifier}", h.handleGetRecord)
		r.Get("/admin/backup", h.handleBackup)
	})

	return r
}
