// Package testutil provides a mock NeoWs server for tests.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior of the mock for one asteroid id.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockNeoWs is a configurable stand-in for the NeoWs lookup endpoint.
// Requests are served under /neo/<id>; unknown ids get a 404.
type MockNeoWs struct {
	server    *httptest.Server
	mu        sync.RWMutex
	responses map[string]MockResponse

	requestCount  int
	perID         map[string]int
	lastAPIKey    string
	lastUserAgent string
}

// NewMockNeoWs starts a mock server. Call Close when done.
func NewMockNeoWs() *MockNeoWs {
	m := &MockNeoWs{
		responses: make(map[string]MockResponse),
		perID:     make(map[string]int),
	}
	m.server = httptest.NewServer(http.HandlerFunc(m.serve))
	return m
}

func (m *MockNeoWs) serve(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/neo/")

	m.mu.Lock()
	m.requestCount++
	m.perID[id]++
	m.lastAPIKey = r.URL.Query().Get("api_key")
	m.lastUserAgent = r.Header.Get("User-Agent")
	resp, ok := m.responses[id]
	m.mu.Unlock()

	if !ok {
		resp = NewNotFoundResponse()
	}

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		_, _ = w.Write([]byte(resp.Body))
	}
}

// BaseURL is the value to use as the client's lookup base URL.
func (m *MockNeoWs) BaseURL() string {
	return m.server.URL + "/neo"
}

// Close shuts down the mock server.
func (m *MockNeoWs) Close() {
	m.server.Close()
}

// SetResponse configures the response served for id.
func (m *MockNeoWs) SetResponse(id int, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[fmt.Sprint(id)] = resp
}

// RequestCount returns the total number of requests served.
func (m *MockNeoWs) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// RequestsFor returns how many requests were made for id.
func (m *MockNeoWs) RequestsFor(id int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.perID[fmt.Sprint(id)]
}

// LastAPIKey returns the api_key query parameter of the last request.
func (m *MockNeoWs) LastAPIKey() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastAPIKey
}

// LastUserAgent returns the User-Agent of the last request.
func (m *MockNeoWs) LastUserAgent() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastUserAgent
}

// Approach is one close_approach_data entry of a fixture body.
type Approach struct {
	Date string
	Body string
}

// LookupBody renders a NeoWs lookup body with the given approaches.
func LookupBody(id int, name string, approaches ...Approach) string {
	entries := make([]string, 0, len(approaches))
	for _, a := range approaches {
		entries = append(entries, fmt.Sprintf(
			`{"close_approach_date":%q,"close_approach_date_full":"%s 00:00","epoch_date_close_approach":0,"miss_distance":{"astronomical":"0.1"},"orbiting_body":%q}`,
			a.Date, a.Date, a.Body))
	}
	return fmt.Sprintf(`{"id":"%d","neo_reference_id":"%d","name":%q,"is_potentially_hazardous_asteroid":false,"close_approach_data":[%s]}`,
		id, id, name, strings.Join(entries, ","))
}

// NewLookupResponse creates a 200 OK with quota headers and the given body.
func NewLookupResponse(body string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type":          "application/json;charset=UTF-8",
			"X-RateLimit-Limit":     "1000",
			"X-RateLimit-Remaining": "999",
		},
	}
}

// NewNotFoundResponse creates the 404 NeoWs returns for unknown ids.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"code":404,"http_error":"NOT FOUND","error_message":"Asteroid not found"}`,
		Headers:    map[string]string{"Content-Type": "application/json;charset=UTF-8"},
	}
}

// NewRateLimitResponse creates a 429 with an exhausted quota.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error":{"code":"OVER_RATE_LIMIT","message":"You have exceeded your rate limit."}}`,
		Headers: map[string]string{
			"Content-Type":          "application/json",
			"X-RateLimit-Limit":     "30",
			"X-RateLimit-Remaining": "0",
		},
	}
}

// NewServerErrorResponse creates a 500.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error":"Internal server error"}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}
