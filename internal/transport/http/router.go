package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fleetrank/internal/config"
	custommw "fleetrank/internal/middleware"
)

// NewRouter wires the ranking API: middleware chain, ranking and
// comparison endpoints, health and Prometheus metrics.
func NewRouter(cfg *config.Config, logger *slog.Logger) http.Handler {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	rankingHandler := NewRankingHandler(cfg, logger, metrics)
	healthHandler := NewHealthHandler()

	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.StructuredLogger(logger))
	r.Use(custommw.Recoverer(logger))
	if cfg.Security.RateLimit.Enabled {
		limiter := custommw.NewRateLimiter(cfg.Security.RateLimit.RPS, cfg.Security.RateLimit.Burst, logger)
		r.Use(limiter.Handler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/version", healthHandler.VersionInfo)

		r.Route("/v1", func(r chi.Router) {
			r.Post("/rankings/{domain}", rankingHandler.Run)
			r.Post("/comparison", rankingHandler.Compare)
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return r
}
