package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts lookups served from the store.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approach_cache_hits_total",
			Help: "Total number of approach record cache hits",
		},
		[]string{"backend"},
	)

	// CacheMisses counts lookups that went upstream.
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approach_cache_misses_total",
			Help: "Total number of approach record cache misses",
		},
		[]string{"backend"},
	)

	// CacheStores counts records written after a successful fetch.
	CacheStores = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approach_cache_stores_total",
			Help: "Total number of approach records written to the cache",
		},
		[]string{"backend"},
	)

	// CacheEvictions counts records dropped for size or age.
	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approach_cache_evictions_total",
			Help: "Total number of approach records evicted by size or age",
		},
		[]string{"backend"},
	)

	// CacheErrors counts store failures by operation ("get", "set").
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approach_cache_errors_total",
			Help: "Total number of cache backend errors",
		},
		[]string{"backend", "operation"},
	)
)
