package cache

import (
	"context"
	"errors"
	"time"

	"github.com/neoscope/asteroid-paths/pkg/asteroid"
)

var (
	// ErrCacheMiss indicates the key is absent or its entry has expired.
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates a stored value could not be decoded.
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Bounds applied when Options leaves them unset.
const (
	DefaultMaxSize = 1000
	DefaultMaxAge  = 24 * time.Hour
)

// Options bounds a store.
type Options struct {
	// MaxSize is the maximum number of records held. Oldest writes go first.
	MaxSize int

	// MaxAge is how long a record lives after it was written.
	MaxAge time.Duration
}

// DefaultOptions returns 1000 records for 24 hours.
func DefaultOptions() Options {
	return Options{MaxSize: DefaultMaxSize, MaxAge: DefaultMaxAge}
}

func (o Options) withDefaults() Options {
	if o.MaxSize <= 0 {
		o.MaxSize = DefaultMaxSize
	}
	if o.MaxAge <= 0 {
		o.MaxAge = DefaultMaxAge
	}
	return o
}

// Store is a bounded, expiring map from Key to ApproachRecord.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns ErrCacheMiss when key is absent or expired.
	Get(ctx context.Context, key Key) (*asteroid.ApproachRecord, error)

	// Set stores record under key, restarting its max-age.
	Set(ctx context.Context, key Key, record *asteroid.ApproachRecord) error

	// Len returns the number of live records.
	Len(ctx context.Context) (int, error)

	// Backend names the implementation for logs and metric labels.
	Backend() string
}
