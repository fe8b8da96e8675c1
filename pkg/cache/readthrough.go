package cache

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/neoscope/asteroid-paths/pkg/asteroid"
	"github.com/neoscope/asteroid-paths/pkg/logging"
)

// Fetcher loads a record from the source of truth on a cache miss.
// *neows.Client satisfies it.
type Fetcher interface {
	FetchAsteroid(ctx context.Context, asteroidID int) (*asteroid.ApproachRecord, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, asteroidID int) (*asteroid.ApproachRecord, error)

func (f FetcherFunc) FetchAsteroid(ctx context.Context, asteroidID int) (*asteroid.ApproachRecord, error) {
	return f(ctx, asteroidID)
}

// ReadThrough memoizes successful fetches by asteroid id. Failed fetches are
// returned as is and never stored, so the next call goes upstream again.
//
// Concurrent misses on the same id are not coalesced; each calls the fetcher.
type ReadThrough struct {
	store   Store
	fetcher Fetcher
	logger  zerolog.Logger
}

// NewReadThrough wires store in front of fetcher.
func NewReadThrough(store Store, fetcher Fetcher) *ReadThrough {
	return &ReadThrough{
		store:   store,
		fetcher: fetcher,
		logger:  logging.NewLogger("cache"),
	}
}

// Get returns the record for asteroidID from the store, or fetches and
// stores it. Store errors are logged and never fail the lookup.
func (c *ReadThrough) Get(ctx context.Context, asteroidID int) (*asteroid.ApproachRecord, error) {
	key := Key(asteroidID)
	backend := c.store.Backend()
	logger := logging.FromContext(ctx, "cache", c.logger).With().
		Str("key", key.String()).
		Str("backend", backend).
		Logger()

	record, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		CacheHits.WithLabelValues(backend).Inc()
		logger.Debug().Bool("cache_hit", true).Msg("Cache hit")
		return record, nil
	case errors.Is(err, ErrCacheMiss):
		logger.Debug().Bool("cache_hit", false).Msg("Cache miss")
	default:
		CacheErrors.WithLabelValues(backend, "get").Inc()
		logger.Warn().Err(err).Msg("Cache get failed, fetching upstream")
	}
	CacheMisses.WithLabelValues(backend).Inc()

	record, err = c.fetcher.FetchAsteroid(ctx, asteroidID)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, key, record); err != nil {
		CacheErrors.WithLabelValues(backend, "set").Inc()
		logger.Warn().Err(err).Msg("Cache set failed")
		return record, nil
	}
	CacheStores.WithLabelValues(backend).Inc()

	return record, nil
}

// Store returns the backing store.
func (c *ReadThrough) Store() Store {
	return c.store
}
