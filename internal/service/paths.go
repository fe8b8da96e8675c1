// Package service resolves path requests: it applies the default window,
// validates it, loads the asteroid's record and derives its transitions.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/neoscope/asteroid-paths/pkg/asteroid"
	"github.com/neoscope/asteroid-paths/pkg/logging"
	"github.com/neoscope/asteroid-paths/pkg/paths"
)

// DefaultLookbackYears is how far back the window starts when no fromDate is given.
const DefaultLookbackYears = 100

// ValidationKind names what a ValidationError rejected.
type ValidationKind string

const (
	// InvalidRange means fromDate falls after toDate.
	InvalidRange ValidationKind = "invalid_range"

	// InvalidParameter means a request parameter could not be parsed.
	InvalidParameter ValidationKind = "invalid_parameter"
)

// ValidationError rejects a request before any upstream work is done.
type ValidationError struct {
	Kind    ValidationKind
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewParameterError reports a parameter that could not be parsed.
func NewParameterError(name, value string) *ValidationError {
	return &ValidationError{
		Kind:    InvalidParameter,
		Message: fmt.Sprintf("Invalid value for parameter '%s': %s", name, value),
	}
}

// RecordSource returns the approach record of an asteroid.
// *cache.ReadThrough satisfies it.
type RecordSource interface {
	Get(ctx context.Context, asteroidID int) (*asteroid.ApproachRecord, error)
}

// PathService orchestrates one path request.
type PathService struct {
	source RecordSource
	now    func() time.Time
	logger zerolog.Logger
}

// NewPathService creates a service reading records from source.
func NewPathService(source RecordSource) *PathService {
	return &PathService{
		source: source,
		now:    time.Now,
		logger: logging.NewLogger("service"),
	}
}

// Window resolves the effective date window. A nil from means today minus
// DefaultLookbackYears; a nil to means today.
func (s *PathService) Window(from, to *asteroid.Date) (asteroid.DateWindow, error) {
	today := asteroid.DateOf(s.now())

	start := today.AddYears(-DefaultLookbackYears)
	if from != nil {
		start = *from
	}
	end := today
	if to != nil {
		end = *to
	}

	w, err := asteroid.NewDateWindow(start, end)
	if err != nil {
		return asteroid.DateWindow{}, &ValidationError{
			Kind:    InvalidRange,
			Message: asteroid.ErrInvalidWindow.Error(),
			Err:     err,
		}
	}
	return w, nil
}

// GetPaths returns the planetary transitions of asteroidID that lie within
// the window. Errors from loading the record are returned unchanged.
func (s *PathService) GetPaths(ctx context.Context, asteroidID int, from, to *asteroid.Date) ([]asteroid.PathSegment, error) {
	window, err := s.Window(from, to)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx, "service", s.logger).With().
		Int("asteroid_id", asteroidID).
		Stringer("window", window).
		Logger()

	record, err := s.source.Get(ctx, asteroidID)
	if err != nil {
		return nil, err
	}
	if !record.HasEvents() {
		logger.Debug().Msg("Asteroid has no close approaches")
		return []asteroid.PathSegment{}, nil
	}

	segments := paths.Derive(record.Events, window)
	logger.Debug().
		Int("events", len(record.Events)).
		Int("segments", len(segments)).
		Msg("Derived approach paths")

	return segments, nil
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
