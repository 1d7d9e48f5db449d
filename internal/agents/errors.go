package agents

import (
	"errors"
	"net/http"
)

// Domain errors for agent operations.
var (
	ErrNotFound     = errors.New("agent not found")
	ErrDuplicate    = errors.New("agent already exists")
	ErrInvalidAgent = errors.New("invalid agent")
	ErrModel        = errors.New("model does not exist")
)

// MapHTTPStatus maps domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidAgent) || errors.Is(err, ErrModel) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
