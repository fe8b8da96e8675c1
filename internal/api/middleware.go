package api

import (
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HeaderCorrelationID carries the id tying a request to its log lines.
const HeaderCorrelationID = "X-Correlation-ID"

// CorrelationID takes the caller's X-Correlation-ID, or generates one when it
// is absent or blank, echoes it on the response and stores a logger carrying
// it in the request context.
func CorrelationID(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(HeaderCorrelationID))
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(HeaderCorrelationID, id)

			logger := base.With().Str("correlation_id", id).Logger()
			next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
		})
	}
}

// RequestLogger logs one line per request once the response is written.
// Probe endpoints log at debug.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := zerolog.Ctx(r.Context())
		logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", r.URL.RawQuery).
			Msg("Request received")

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		event := logger.Info()
		switch {
		case probePath(r.URL.Path):
			event = logger.Debug()
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		}
		event.
			Str("component", "api").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status_code", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("Request completed")
	})
}

func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz" || path == "/metrics"
}
