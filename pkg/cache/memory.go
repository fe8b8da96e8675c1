package cache

import (
	"context"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/neoscope/asteroid-paths/pkg/asteroid"
)

// BackendMemory is the Backend name of MemoryStore.
const BackendMemory = "memory"

// MemoryStore is an in-process LRU whose entries expire MaxAge after they
// were written. Reads do not extend an entry's life.
type MemoryStore struct {
	lru *expirable.LRU[string, *asteroid.ApproachRecord]
}

// NewMemoryStore creates a store bounded by opts. Zero fields take the
// package defaults.
func NewMemoryStore(opts Options) *MemoryStore {
	opts = opts.withDefaults()
	onEvict := func(string, *asteroid.ApproachRecord) {
		CacheEvictions.WithLabelValues(BackendMemory).Inc()
	}
	return &MemoryStore{
		lru: expirable.NewLRU[string, *asteroid.ApproachRecord](opts.MaxSize, onEvict, opts.MaxAge),
	}
}

func (s *MemoryStore) Get(_ context.Context, key Key) (*asteroid.ApproachRecord, error) {
	record, ok := s.lru.Get(key.String())
	if !ok {
		return nil, ErrCacheMiss
	}
	return record.Clone(), nil
}

func (s *MemoryStore) Set(_ context.Context, key Key, record *asteroid.ApproachRecord) error {
	// Add on an existing key resets its expiry.
	s.lru.Add(key.String(), record.Clone())
	return nil
}

func (s *MemoryStore) Len(context.Context) (int, error) {
	return s.lru.Len(), nil
}

func (s *MemoryStore) Backend() string { return BackendMemory }
