// Package cache memoizes NeoWs approach records by asteroid id.
//
// ReadThrough sits in front of a Fetcher (the NeoWs client) and a Store.
// Two stores are provided:
//
//   - MemoryStore: in-process LRU with expire-after-write (default).
//   - RedisStore: SET EX per record plus a write-time sorted set used to
//     enforce the size bound across instances.
//
// Both hold at most Options.MaxSize records, each for at most Options.MaxAge
// after it was written. Only successful fetches are stored.
//
// # Basic Usage
//
//	client, _ := neows.New(neows.DefaultConfig())
//	rt := cache.NewReadThrough(cache.NewMemoryStore(cache.DefaultOptions()), client)
//
//	record, err := rt.Get(ctx, 3542519)
//	if neows.IsKind(err, neows.KindNotFound) {
//		// nothing was cached; the next Get asks NeoWs again
//	}
//
// # Redis
//
//	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	store := cache.NewRedisStore(rdb, cache.Options{MaxSize: 1000, MaxAge: 24 * time.Hour})
//
// Keys have the form "neo:asteroid:<id>"; the index lives at
// "neo:asteroid:index".
//
// # Metrics
//
//   - approach_cache_hits_total{backend}
//   - approach_cache_misses_total{backend}
//   - approach_cache_stores_total{backend}
//   - approach_cache_evictions_total{backend}
//   - approach_cache_errors_total{backend,operation}
package cache
