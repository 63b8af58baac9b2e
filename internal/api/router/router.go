package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/egresswatch/egresswatch/internal/api/handlers"
	"github.com/egresswatch/egresswatch/internal/api/middleware"
	"github.com/egresswatch/egresswatch/internal/config"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
	"github.com/egresswatch/egresswatch/internal/pkg/metrics"
)

type Handlers struct {
	Health         *handlers.HealthHandler
	Run            *handlers.RunHandler
	Trend          *handlers.TrendHandler
	Cost           *handlers.CostHandler
	Anomaly        *handlers.AnomalyHandler
	Recommendation *handlers.RecommendationHandler
	Summary        *handlers.SummaryHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.DefaultCORS(cfg.Server.DashboardPort))
	r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200
	r.Use(metrics.Middleware)

	// Health checks and metrics
	r.Get("/health", h.Health.Healthz)
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	r.Handle("/metrics", metrics.Handler())

	// Runs
	r.Route("/api/v1/runs", func(r chi.Router) {
		r.Get("/", h.Run.List)
		r.Post("/", h.Run.Trigger)
		r.Get("/latest", h.Run.Latest)
		r.Get("/{id}", h.Run.Get)
	})

	// Trends
	r.Route("/api/v1/trends", func(r chi.Router) {
		r.Get("/", h.Trend.List)
		r.Get("/summary", h.Trend.GetSummary)
		r.Get("/{id}", h.Trend.Get)
	})

	// Cost estimates
	r.Route("/api/v1/costs", func(r chi.Router) {
		r.Get("/", h.Cost.List)
		r.Get("/projected", h.Cost.GetTotalProjected)
		r.Get("/{id}", h.Cost.Get)
	})

	// Anomalies
	r.Route("/api/v1/anomalies", func(r chi.Router) {
		r.Get("/", h.Anomaly.List)
		r.Get("/summary", h.Anomaly.GetSummary)
		r.Get("/{id}", h.Anomaly.Get)
	})

	// Recommendations
	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Get("/", h.Recommendation.List)
		r.Get("/summary", h.Recommendation.GetSummary)
		r.Get("/{runId}/{id}", h.Recommendation.Get)
	})

	// Dashboard summary
	r.Get("/api/v1/summary", h.Summary.Get)

	return r
}
