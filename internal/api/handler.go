package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/neoscope/asteroid-paths/internal/service"
	"github.com/neoscope/asteroid-paths/pkg/asteroid"
)

// PathGetter is the orchestration the paths endpoint depends on.
// *service.PathService satisfies it.
type PathGetter interface {
	GetPaths(ctx context.Context, asteroidID int, from, to *asteroid.Date) ([]asteroid.PathSegment, error)
}

// RegisterRoutes mounts the asteroid endpoints on r.
func RegisterRoutes(r chi.Router, svc PathGetter, now func() time.Time) {
	r.Route("/api/v1.0/asteroids", func(r chi.Router) {
		r.Get("/{asteroidId}/paths", handleGetPaths(svc, now))
	})
}

// handleGetPaths serves GET /api/v1.0/asteroids/{asteroidId}/paths.
//
// Query parameters fromDate and toDate are optional yyyy-MM-dd dates; an
// empty value counts as absent.
func handleGetPaths(svc PathGetter, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawID := chi.URLParam(r, "asteroidId")
		asteroidID, err := strconv.Atoi(rawID)
		if err != nil {
			fail(w, r, now, service.NewParameterError("asteroidId", rawID))
			return
		}

		q := r.URL.Query()
		from, err := optionalDate("fromDate", q.Get("fromDate"))
		if err != nil {
			fail(w, r, now, err)
			return
		}
		to, err := optionalDate("toDate", q.Get("toDate"))
		if err != nil {
			fail(w, r, now, err)
			return
		}

		segments, err := svc.GetPaths(r.Context(), asteroidID, from, to)
		if err != nil {
			fail(w, r, now, err)
			return
		}

		writeSuccess(w, segments)
	}
}

func optionalDate(name, raw string) (*asteroid.Date, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := asteroid.ParseDate(raw)
	if err != nil {
		return nil, service.NewParameterError(name, raw)
	}
	return &d, nil
}

func fail(w http.ResponseWriter, r *http.Request, now func() time.Time, err error) {
	p := Translate(err)

	logger := zerolog.Ctx(r.Context())
	event := logger.Warn()
	if p.Status >= 500 {
		event = logger.Error()
	}
	event.Err(err).
		Str("component", "api").
		Int("status_code", p.Status).
		Int("error_code", p.Code).
		Msg("Request failed")

	writeError(w, r, now(), p)
}
