package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "egresswatch",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "egresswatch",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "egresswatch",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Monitoring run metrics
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "egresswatch",
			Subsystem: "run",
			Name:      "total",
			Help:      "Total number of monitoring runs",
		},
		[]string{"trigger", "status"},
	)

	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "egresswatch",
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Duration of a full collect+analyze run in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	seriesAnalyzed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "egresswatch",
			Subsystem: "run",
			Name:      "series_analyzed_total",
			Help:      "Time series processed by the analysis pipeline",
		},
		[]string{"status"},
	)

	// Anomaly detection metrics
	anomaliesDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "egresswatch",
			Subsystem: "detector",
			Name:      "anomalies_total",
			Help:      "Anomalies detected, by method and severity",
		},
		[]string{"method", "severity"},
	)

	// Recommendation metrics
	recommendationsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "egresswatch",
			Subsystem: "recommendation",
			Name:      "emitted_total",
			Help:      "Recommendations emitted, by category",
		},
		[]string{"category"},
	)

	recommendationsSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "egresswatch",
			Subsystem: "recommendation",
			Name:      "suppressed_total",
			Help:      "Recommendations dropped by category or report caps",
		},
	)

	// Collector metrics
	collectionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "egresswatch",
			Subsystem: "collector",
			Name:      "collections_total",
			Help:      "Metric collection attempts, by provider and status",
		},
		[]string{"provider", "status"},
	)

	collectionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "egresswatch",
			Subsystem: "collector",
			Name:      "collection_duration_seconds",
			Help:      "Duration of a provider collection in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"provider"},
	)

	// Cost metrics
	projectedMonthlyCost = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "egresswatch",
			Subsystem: "cost",
			Name:      "projected_monthly",
			Help:      "Latest projected monthly egress cost per resource",
		},
		[]string{"resource"},
	)

	// Database metrics
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "egresswatch",
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "table"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRun records a completed monitoring run
func RecordRun(trigger, status string, duration time.Duration) {
	runsTotal.WithLabelValues(trigger, status).Inc()
	runDuration.Observe(duration.Seconds())
}

// RecordSeriesAnalyzed records a processed series outcome (ok or error)
func RecordSeriesAnalyzed(status string) {
	seriesAnalyzed.WithLabelValues(status).Inc()
}

// RecordAnomaly records a detected anomaly
func RecordAnomaly(method, severity string) {
	anomaliesDetected.WithLabelValues(method, severity).Inc()
}

// RecordRecommendation records an emitted recommendation
func RecordRecommendation(category string) {
	recommendationsEmitted.WithLabelValues(category).Inc()
}

// RecordSuppressed adds to the suppressed-recommendation counter
func RecordSuppressed(count int) {
	recommendationsSuppressed.Add(float64(count))
}

// RecordCollection records a provider collection attempt
func RecordCollection(provider, status string, duration time.Duration) {
	collectionTotal.WithLabelValues(provider, status).Inc()
	collectionDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// SetProjectedMonthlyCost sets the projected monthly cost gauge for a resource
func SetProjectedMonthlyCost(resource string, cost float64) {
	projectedMonthlyCost.WithLabelValues(resource).Set(cost)
}

// RecordDBQuery records a database query duration
func RecordDBQuery(operation, table string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}
