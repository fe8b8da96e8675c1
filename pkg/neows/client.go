// Package neows is the client for the NASA NeoWs "neo lookup" endpoint.
//
// Every lookup is a single GET with no retry. Failures are returned as
// *UpstreamError so callers can translate them without inspecting HTTP
// details.
package neows

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/neoscope/asteroid-paths/pkg/asteroid"
	"github.com/neoscope/asteroid-paths/pkg/logging"
	"github.com/neoscope/asteroid-paths/pkg/ratelimit"
)

var (
	neowsRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "neows_requests_total",
		Help: "Total NeoWs lookups by HTTP status",
	}, []string{"status"})

	neowsRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "neows_request_duration_seconds",
		Help:    "NeoWs lookup duration in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	})

	neowsErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "neows_errors_total",
		Help: "Total failed NeoWs lookups by error kind",
	}, []string{"kind"})
)

// Defaults for Config.
const (
	DefaultBaseURL   = "https://api.nasa.gov/neo/rest/v1/neo"
	DefaultAPIKey    = "DEMO_KEY"
	DefaultUserAgent = "asteroid-paths/0.1.0"
	DefaultTimeout   = 30 * time.Second
)

// maxBodyBytes bounds how much of a lookup response is read.
const maxBodyBytes = 4 << 20

// Config holds the client configuration.
type Config struct {
	// BaseURL of the lookup endpoint; the asteroid id is appended as a path
	// segment. Must be an absolute http(s) URL.
	BaseURL string

	// APIKey is sent as the api_key query parameter.
	APIKey string

	UserAgent string

	// Timeout bounds a whole lookup. Non-positive means DefaultTimeout.
	Timeout time.Duration
}

// DefaultConfig returns the public NeoWs endpoint with the shared demo key.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		APIKey:    DefaultAPIKey,
		UserAgent: DefaultUserAgent,
		Timeout:   DefaultTimeout,
	}
}

// Client fetches close-approach data from NeoWs.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	config     Config
	quota      *ratelimit.Tracker
	logger     zerolog.Logger
}

// New validates cfg and creates a client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("base url must be an absolute http(s) url (got %q)", cfg.BaseURL)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	logger := logging.NewLogger("neows")

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    base,
		config:     cfg,
		quota:      ratelimit.NewTracker(logger),
		logger:     logger,
	}, nil
}

// FetchAsteroid looks up one asteroid and returns its close-approach record.
// The id is passed through as is; NeoWs decides whether it exists.
func (c *Client) FetchAsteroid(ctx context.Context, asteroidID int) (*asteroid.ApproachRecord, error) {
	logger := logging.FromContext(ctx, "neows", c.logger).With().Int("asteroid_id", asteroidID).Logger()

	start := time.Now()
	defer func() {
		neowsRequestDuration.Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.lookupURL(asteroidID), nil)
	if err != nil {
		return nil, c.fail(logger, newUpstreamError(KindTransportFailure, 0, fmt.Errorf("create request: %w", err)))
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	logger.Debug().Msg("Fetching asteroid from NeoWs")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		neowsRequestsTotal.WithLabelValues("transport_error").Inc()
		return nil, c.fail(logger, newUpstreamError(KindTransportFailure, 0, err))
	}
	defer resp.Body.Close()

	neowsRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	if err := c.quota.UpdateFromHeaders(resp.Header); err != nil {
		logger.Warn().Err(err).Msg("Failed to read NeoWs quota headers")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		kind := classifyStatus(resp.StatusCode)
		return nil, c.fail(logger, newUpstreamError(kind, resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.fail(logger, newUpstreamError(KindTransportFailure, resp.StatusCode, fmt.Errorf("read body: %w", err)))
	}

	record, err := decodeRecord(body)
	if err != nil {
		return nil, c.fail(logger, newUpstreamError(KindTransportFailure, resp.StatusCode, err))
	}

	logger.Info().
		Int("status_code", resp.StatusCode).
		Int("events", len(record.Events)).
		Dur("duration", time.Since(start)).
		Msg("NeoWs lookup succeeded")

	return record, nil
}

// fail records metrics and logs for a failed lookup and returns ue.
func (c *Client) fail(logger zerolog.Logger, ue *UpstreamError) error {
	neowsErrorsTotal.WithLabelValues(string(ue.Kind)).Inc()

	event := logger.Warn()
	if ue.Kind == KindTransportFailure {
		event = logger.Error()
	}
	event.Err(ue.Err).
		Int("status_code", ue.StatusCode).
		Str("error_kind", string(ue.Kind)).
		Msg("NeoWs lookup failed")

	return ue
}

// lookupURL builds <base>/<id>?api_key=<key>.
func (c *Client) lookupURL(asteroidID int) string {
	u := c.baseURL.JoinPath(strconv.Itoa(asteroidID))
	q := u.Query()
	q.Set("api_key", c.config.APIKey)
	u.RawQuery = q.Encode()
	return u.String()
}

// Quota returns the tracker fed by NeoWs rate limit headers.
func (c *Client) Quota() *ratelimit.Tracker {
	return c.quota
}

// SetHTTPClient replaces the underlying HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
