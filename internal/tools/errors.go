package tools

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors for tool operations.
var (
	ErrNotFound        = errors.New("tool not found")
	ErrDuplicate       = errors.New("tool handle already exists for owner")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrValidation      = errors.New("tool manifest validation failed")
	ErrUnauthorized    = errors.New("access token does not grant this user")
)

// ValidationError reports the first manifest field that failed validation.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Value any    `json:"value"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s failed %s", ErrValidation, e.Field, e.Rule)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// MapHTTPStatus maps tool errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
