// Package api is the HTTP boundary of the service: routing, middleware,
// the response envelope and the translation of errors to status codes.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/neoscope/asteroid-paths/pkg/metrics"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Options configures NewRouter.
type Options struct {
	Service PathGetter

	// Logger is the base logger request loggers derive from.
	Logger zerolog.Logger

	// Ready is consulted by /readyz. Nil means always ready.
	Ready ReadinessCheck

	// Now stamps error responses. Defaults to time.Now.
	Now func() time.Time
}

// NewRouter builds the service's HTTP handler.
func NewRouter(opts Options) http.Handler {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(metrics.Middleware)
	r.Use(CorrelationID(opts.Logger))
	r.Use(RequestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", handleHealthz)
	r.Get("/readyz", handleReadyz(opts.Ready))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	RegisterRoutes(r, opts.Service, now)

	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleReadyz(check ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				zerolog.Ctx(r.Context()).Warn().Err(err).Msg("Readiness check failed")
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
