package completions

import (
	"errors"
	"net/http"
)

var (
	ErrUpstream     = errors.New("model provider request failed")
	ErrRoundLimit   = errors.New("tool call round limit reached")
	ErrInvalidInput = errors.New("invalid completion request")
)

// MapHTTPStatus maps completion errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUpstream), errors.Is(err, ErrRoundLimit):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
