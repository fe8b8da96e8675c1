package api

import (
	"errors"
	"net/http"

	"github.com/neoscope/asteroid-paths/internal/service"
	"github.com/neoscope/asteroid-paths/pkg/neows"
)

// Error codes carried in the envelope's errorCode field.
const (
	CodeNotFound            = 4001
	CodeRateLimited         = 4002
	CodeBadUpstreamResponse = 4003
	CodeValidation          = 9998
	CodeGeneric             = 9999
)

// Problem is an error translated for the response envelope.
type Problem struct {
	Status  int
	Code    int
	Message string
}

// Translate maps err to the status, code and message sent to the caller.
// Anything unrecognised becomes a generic 500.
func Translate(err error) Problem {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return Problem{Status: http.StatusBadRequest, Code: CodeValidation, Message: ve.Message}
	}

	var ue *neows.UpstreamError
	if errors.As(err, &ue) {
		switch ue.Kind {
		case neows.KindNotFound:
			return Problem{Status: ue.Status(), Code: CodeNotFound, Message: neows.MsgNotFound}
		case neows.KindRateLimited:
			return Problem{Status: ue.Status(), Code: CodeRateLimited, Message: neows.MsgRateLimited}
		case neows.KindBadUpstreamResponse:
			return Problem{Status: ue.Status(), Code: CodeBadUpstreamResponse, Message: neows.MsgBadUpstreamResponse}
		}
	}

	return Problem{Status: http.StatusInternalServerError, Code: CodeGeneric, Message: neows.MsgTransportFailure}
}
