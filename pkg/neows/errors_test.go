package neows

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorKind
	}{
		{http.StatusNotFound, KindNotFound},
		{http.StatusTooManyRequests, KindRateLimited},
		{http.StatusBadRequest, KindBadUpstreamResponse},
		{http.StatusUnauthorized, KindBadUpstreamResponse},
		{http.StatusForbidden, KindBadUpstreamResponse},
		{http.StatusInternalServerError, KindTransportFailure},
		{http.StatusBadGateway, KindTransportFailure},
		{http.StatusMovedPermanently, KindTransportFailure},
		{http.StatusNoContent, KindTransportFailure},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			if got := classifyStatus(tt.status); got != tt.want {
				t.Errorf("classifyStatus(%d) = %s, want %s", tt.status, got, tt.want)
			}
		})
	}
}

func TestUpstreamError_Error(t *testing.T) {
	inner := errors.New("connection reset")
	err := newUpstreamError(KindTransportFailure, 0, inner)

	msg := err.Error()
	for _, want := range []string{"transport_failure", "Generic error", "connection reset"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
	if !errors.Is(err, inner) {
		t.Error("Unwrap should expose the cause")
	}

	bare := &UpstreamError{Kind: KindNotFound, StatusCode: 404, Message: MsgNotFound}
	if got := bare.Error(); got != "neows not_found (status 404): Asteroid not found" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIsKind_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("load asteroid 42: %w", newUpstreamError(KindRateLimited, 429, nil))

	if !IsKind(err, KindRateLimited) {
		t.Error("IsKind should see through %w wrapping")
	}
	if IsKind(err, KindNotFound) {
		t.Error("IsKind matched the wrong kind")
	}
	if IsKind(errors.New("plain"), KindNotFound) {
		t.Error("IsKind matched a non-upstream error")
	}
}
