// Package ratelimit tracks the NeoWs API key quota reported in the
// X-RateLimit-Limit and X-RateLimit-Remaining response headers.
//
// The tracker only observes: it never delays or blocks a request. Running
// out of quota surfaces as a 429 from NeoWs, which the client maps to
// RateLimited.
package ratelimit

import (
	"time"
)

// Response headers set by api.nasa.gov.
const (
	HeaderLimit     = "X-RateLimit-Limit"
	HeaderRemaining = "X-RateLimit-Remaining"
)

// Thresholds used to classify the quota, as a fraction of the hourly limit.
const (
	// LowQuotaFraction marks the quota as low; a warning is logged.
	LowQuotaFraction = 0.1

	// HealthyQuotaFraction marks the quota as comfortably healthy.
	HealthyQuotaFraction = 0.5
)

// QuotaState is the last quota reported by NeoWs.
type QuotaState struct {
	// Limit is the number of requests allowed per window for the API key.
	Limit int `json:"limit"`

	// Remaining is the number of requests left in the current window.
	Remaining int `json:"remaining"`

	// LastUpdate is when the headers were observed. Zero if never.
	LastUpdate time.Time `json:"last_update"`
}

// Known reports whether any quota headers have been observed yet.
func (s QuotaState) Known() bool {
	return !s.LastUpdate.IsZero()
}

// IsStale reports whether the state is older than maxAge.
func (s QuotaState) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// Exhausted reports whether the key has no requests left.
func (s QuotaState) Exhausted() bool {
	return s.Known() && s.Remaining <= 0
}

// RemainingFraction is Remaining/Limit, or 1 when the limit is unknown.
func (s QuotaState) RemainingFraction() float64 {
	if s.Limit <= 0 {
		return 1
	}
	return float64(s.Remaining) / float64(s.Limit)
}

// IsLow reports whether the remaining quota fell below LowQuotaFraction.
func (s QuotaState) IsLow() bool {
	return s.Known() && s.RemainingFraction() < LowQuotaFraction
}

// IsHealthy reports whether at least HealthyQuotaFraction of the quota is left.
// An unknown state counts as healthy.
func (s QuotaState) IsHealthy() bool {
	return !s.Known() || s.RemainingFraction() >= HealthyQuotaFraction
}
