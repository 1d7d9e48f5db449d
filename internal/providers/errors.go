package providers

import (
	"errors"
	"net/http"
)

// Domain errors for the providers system.
var (
	// ErrNotFound indicates the requested provider does not exist.
	ErrNotFound = errors.New("provider not found")

	// ErrDuplicate indicates a provider with the same name already exists.
	ErrDuplicate = errors.New("provider name already exists")

	// ErrInvalidProvider indicates the provider command failed validation.
	ErrInvalidProvider = errors.New("invalid provider")
)

// MapHTTPStatus maps provider errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidProvider):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
