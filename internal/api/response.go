package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// Envelope status values.
const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
)

// timestampLayout renders error timestamps as yyyy-MM-ddTHH:mm:ss, local time.
const timestampLayout = "2006-01-02T15:04:05"

// SuccessResponse wraps every 200 body.
type SuccessResponse struct {
	Status    string `json:"status"`
	ErrorCode int    `json:"errorCode"`
	Data      any    `json:"data"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Status    string `json:"status"`
	ErrorCode int    `json:"errorCode"`
	Message   string `json:"message"`
	Path      string `json:"path"`
	Timestamp string `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, SuccessResponse{
		Status:    StatusSuccess,
		ErrorCode: 0,
		Data:      data,
	})
}

func writeError(w http.ResponseWriter, r *http.Request, now time.Time, p Problem) {
	writeJSON(w, p.Status, ErrorResponse{
		Status:    StatusError,
		ErrorCode: p.Code,
		Message:   p.Message,
		Path:      r.URL.Path,
		Timestamp: now.Format(timestampLayout),
	})
}
