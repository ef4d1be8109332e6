package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dentops/internal/platform/metrics"
	"dentops/internal/platform/middleware"
)

// NewRouter wires the public API. Transport concerns stay isolated here so
// the domain services never see HTTP.
func NewRouter(h *Handler, validator middleware.JWTValidator, logger *slog.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(api chi.Router) {
		api.Use(middleware.Recovery(logger))
		api.Use(middleware.RequestID)
		api.Use(middleware.Logger(logger))
		api.Use(middleware.Timeout(30 * time.Second))
		api.Use(middleware.ContentTypeJSON)
		api.Use(middleware.LatencyMiddleware(m))
		api.Use(middleware.RequireAuth(validator, logger))
		h.Register(api)
	})

	return r
}
