package neows

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed NeoWs lookup.
type ErrorKind string

const (
	// KindNotFound is a 404: the asteroid id is unknown upstream.
	KindNotFound ErrorKind = "not_found"

	// KindRateLimited is a 429: the API key is out of quota.
	KindRateLimited ErrorKind = "rate_limited"

	// KindBadUpstreamResponse is any other 4xx.
	KindBadUpstreamResponse ErrorKind = "bad_upstream_response"

	// KindTransportFailure covers 5xx, unexpected statuses, undecodable
	// bodies and network failures including timeouts and cancellation.
	KindTransportFailure ErrorKind = "transport_failure"
)

// Messages exposed to callers, one per kind.
const (
	MsgNotFound            = "Asteroid not found"
	MsgRateLimited         = "Service rate limit exceeded"
	MsgBadUpstreamResponse = "Unable to retrieve asteroid data"
	MsgTransportFailure    = "Generic error"
)

// UpstreamError is returned by FetchAsteroid for every failed lookup.
type UpstreamError struct {
	Kind ErrorKind

	// StatusCode is the upstream HTTP status, 0 when no response was received.
	StatusCode int

	Message string
	Err     error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("neows %s (status %d): %s: %v", e.Kind, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("neows %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status the service should answer with.
func (e *UpstreamError) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindBadUpstreamResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// IsKind reports whether err is an *UpstreamError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.Kind == kind
}

func newUpstreamError(kind ErrorKind, status int, err error) *UpstreamError {
	return &UpstreamError{Kind: kind, StatusCode: status, Message: messageFor(kind), Err: err}
}

func messageFor(kind ErrorKind) string {
	switch kind {
	case KindNotFound:
		return MsgNotFound
	case KindRateLimited:
		return MsgRateLimited
	case KindBadUpstreamResponse:
		return MsgBadUpstreamResponse
	default:
		return MsgTransportFailure
	}
}

// classifyStatus maps a non-2xx upstream status to an error kind, most
// specific first.
func classifyStatus(status int) ErrorKind {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 400 && status < 500:
		return KindBadUpstreamResponse
	default:
		return KindTransportFailure
	}
}
