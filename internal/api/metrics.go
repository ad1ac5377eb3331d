package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const unmatched = "unmatched"

// Run request modes.
const (
	modeSync  = "sync"
	modeAsync = "async"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asyncdemo_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asyncdemo_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Only scenarios known to the registry reach this counter, so the label
	// set stays bounded.
	runRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asyncdemo_http_run_requests_total",
			Help: "Accepted run requests by scenario and mode (sync or async).",
		},
		[]string{"scenario", "mode"},
	)

	syncRunsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "asyncdemo_http_sync_runs_in_flight",
			Help: "Synchronous run requests currently holding a connection open.",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, runRequestsTotal, syncRunsInFlight)
}

// metricsMiddleware records request count and duration for every HTTP request.
// Uses the chi route pattern (not the raw path) to avoid unbounded cardinality.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		path := routePattern(r)
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// routePattern extracts the matched chi route pattern, falling back to "unmatched".
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return unmatched
}

// trackSyncRun counts an accepted synchronous run and marks it in flight
// until the returned func is called.
func trackSyncRun(scenarioName string) func() {
	runRequestsTotal.WithLabelValues(scenarioName, modeSync).Inc()
	syncRunsInFlight.Inc()
	return syncRunsInFlight.Dec
}

func trackAsyncRun(scenarioName string) {
	runRequestsTotal.WithLabelValues(scenarioName, modeAsync).Inc()
}

func metricsHandler() http.Handler {
	return promhttp.Handler()
}
