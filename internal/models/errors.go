package models

import (
	"errors"
	"net/http"
)

// Domain errors for model operations.
var (
	ErrNotFound     = errors.New("model not found")
	ErrDuplicate    = errors.New("model already exists for provider")
	ErrInvalidModel = errors.New("invalid model")
	ErrProvider     = errors.New("provider does not exist")
	ErrInUse        = errors.New("model is referenced by an agent")
)

// MapHTTPStatus maps model errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrInUse):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidModel), errors.Is(err, ErrProvider):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
