package ratelimit

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	quotaLimit = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "neows_ratelimit_limit",
		Help: "X-RateLimit-Limit reported by the last NeoWs response",
	})

	quotaRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "neows_ratelimit_remaining",
		Help: "X-RateLimit-Remaining reported by the last NeoWs response",
	})

	quotaLowTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "neows_ratelimit_low_total",
		Help: "Total NeoWs responses observed with the quota below the warning threshold",
	})
)

// Tracker remembers the most recent NeoWs quota. Safe for concurrent use.
type Tracker struct {
	mu     sync.RWMutex
	state  QuotaState
	logger zerolog.Logger
	now    func() time.Time
}

// NewTracker creates a tracker with no observed state.
func NewTracker(logger zerolog.Logger) *Tracker {
	return &Tracker{
		logger: logger,
		now:    time.Now,
	}
}

// State returns a copy of the last observed quota.
func (t *Tracker) State() QuotaState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// UpdateFromHeaders records the quota carried by a NeoWs response.
// Responses without X-RateLimit-Remaining are ignored. A missing limit
// header keeps the previously known limit.
func (t *Tracker) UpdateFromHeaders(headers http.Header) error {
	remainStr := headers.Get(HeaderRemaining)
	if remainStr == "" {
		return nil
	}

	remain, err := strconv.Atoi(remainStr)
	if err != nil {
		return fmt.Errorf("parse %s header: %w", HeaderRemaining, err)
	}

	t.mu.Lock()
	limit := t.state.Limit
	if limitStr := headers.Get(HeaderLimit); limitStr != "" {
		if limit, err = strconv.Atoi(limitStr); err != nil {
			t.mu.Unlock()
			return fmt.Errorf("parse %s header: %w", HeaderLimit, err)
		}
	}
	t.state = QuotaState{Limit: limit, Remaining: remain, LastUpdate: t.now()}
	state := t.state
	t.mu.Unlock()

	quotaLimit.Set(float64(state.Limit))
	quotaRemaining.Set(float64(state.Remaining))

	switch {
	case state.Exhausted():
		quotaLowTotal.Inc()
		t.logger.Error().
			Int("quota_limit", state.Limit).
			Int("quota_remaining", state.Remaining).
			Msg("NeoWs quota exhausted - further lookups will be rejected upstream")
	case state.IsLow():
		quotaLowTotal.Inc()
		t.logger.Warn().
			Int("quota_limit", state.Limit).
			Int("quota_remaining", state.Remaining).
			Msg("NeoWs quota low")
	default:
		t.logger.Debug().
			Int("quota_limit", state.Limit).
			Int("quota_remaining", state.Remaining).
			Msg("NeoWs quota updated")
	}

	return nil
}
