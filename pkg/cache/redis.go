package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/neoscope/asteroid-paths/pkg/asteroid"
)

// BackendRedis is the Backend name of RedisStore.
const BackendRedis = "redis"

// indexKey is a sorted set of live keys scored by write time (unix nanos).
// It lets the store enforce MaxSize, which Redis expiry alone cannot.
const indexKey = keyPrefix + "index"

// RedisStore keeps records in Redis with SET EX and trims the oldest writes
// once more than MaxSize records are indexed.
type RedisStore struct {
	redis *redis.Client
	opts  Options
	now   func() time.Time
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(redisClient *redis.Client, opts Options) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{
		redis: redisClient,
		opts:  opts.withDefaults(),
		now:   time.Now,
	}
}

func (s *RedisStore) Get(ctx context.Context, key Key) (*asteroid.ApproachRecord, error) {
	data, err := s.redis.Get(ctx, key.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var record asteroid.ApproachRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return &record, nil
}

func (s *RedisStore) Set(ctx context.Context, key Key, record *asteroid.ApproachRecord) error {
	if record == nil {
		return fmt.Errorf("cache record cannot be nil")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal cache record: %w", err)
	}

	now := s.now()
	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key.String(), data, s.opts.MaxAge)
		pipe.ZAdd(ctx, indexKey, redis.Z{Score: float64(now.UnixNano()), Member: key.String()})
		pipe.ZRemRangeByScore(ctx, indexKey, "-inf", s.expiredBefore(now))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return s.trim(ctx)
}

// trim evicts the oldest writes beyond MaxSize.
func (s *RedisStore) trim(ctx context.Context) error {
	size, err := s.redis.ZCard(ctx, indexKey).Result()
	if err != nil {
		return fmt.Errorf("redis zcard: %w", err)
	}
	excess := size - int64(s.opts.MaxSize)
	if excess <= 0 {
		return nil
	}

	oldest, err := s.redis.ZPopMin(ctx, indexKey, excess).Result()
	if err != nil {
		return fmt.Errorf("redis zpopmin: %w", err)
	}
	keys := make([]string, 0, len(oldest))
	for _, z := range oldest {
		if member, ok := z.Member.(string); ok {
			keys = append(keys, member)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	CacheEvictions.WithLabelValues(BackendRedis).Add(float64(len(keys)))
	return nil
}

// Len counts indexed records written within MaxAge.
func (s *RedisStore) Len(ctx context.Context) (int, error) {
	n, err := s.redis.ZCount(ctx, indexKey, "("+s.expiredBefore(s.now()), "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("redis zcount: %w", err)
	}
	return int(n), nil
}

func (s *RedisStore) Backend() string { return BackendRedis }

// Ping checks the connection, for readiness probes.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

// expiredBefore is the index score at or below which entries have outlived MaxAge.
func (s *RedisStore) expiredBefore(now time.Time) string {
	return strconv.FormatInt(now.Add(-s.opts.MaxAge).UnixNano(), 10)
}
