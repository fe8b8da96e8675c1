// Package metrics exposes the Prometheus registry and the HTTP-level metrics
// of the asteroid-paths service. Domain metrics live next to the code that
// updates them (pkg/neows, pkg/cache, pkg/ratelimit) and register themselves
// through promauto.
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

// Registry is the registerer every package's promauto metrics end up in.
var Registry = prometheus.DefaultRegisterer

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asteroid_paths_http_requests_total",
		Help: "Total inbound HTTP requests by route, method and status code",
	}, []string{"route", "method", "code"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "asteroid_paths_http_request_duration_seconds",
		Help:    "Inbound HTTP request duration in seconds by route and method",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// Handler returns the /metrics handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration. Requests are labelled with
// the matched chi route pattern so path parameters do not explode label
// cardinality; unmatched requests are labelled "unmatched".
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		route := RoutePattern(r)
		httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(sw.status)).Inc()
		httpRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// RoutePattern returns the chi route pattern matched for r.
func RoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// Metric catalogue
//
// HTTP (pkg/metrics):
//   - asteroid_paths_http_requests_total{route,method,code} (Counter)
//   - asteroid_paths_http_request_duration_seconds{route,method} (Histogram)
//
// Upstream (pkg/neows):
//   - neows_requests_total{status} (Counter): NeoWs lookups by HTTP status or "transport_error"
//   - neows_request_duration_seconds (Histogram)
//   - neows_errors_total{kind} (Counter): failures by kind
//
// Quota (pkg/ratelimit):
//   - neows_ratelimit_limit (Gauge): X-RateLimit-Limit of the last response
//   - neows_ratelimit_remaining (Gauge): X-RateLimit-Remaining of the last response
//   - neows_ratelimit_low_total (Counter): responses seen with quota below the warning threshold
//
// Cache (pkg/cache):
//   - approach_cache_hits_total{backend} (Counter)
//   - approach_cache_misses_total{backend} (Counter)
//   - approach_cache_stores_total{backend} (Counter)
//   - approach_cache_evictions_total{backend} (Counter)
//   - approach_cache_errors_total{backend,operation} (Counter)
//
// Example queries:
//
//	# cache hit ratio
//	sum(rate(approach_cache_hits_total[5m])) /
//	(sum(rate(approach_cache_hits_total[5m])) + sum(rate(approach_cache_misses_total[5m])))
//
//	# P95 upstream latency
//	histogram_quantile(0.95, rate(neows_request_duration_seconds_bucket[5m]))
