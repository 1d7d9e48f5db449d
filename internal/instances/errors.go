package instances

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/agent-instances/internal/agents"
	"github.com/JaimeStill/agent-instances/internal/completions"
	"github.com/JaimeStill/agent-instances/internal/models"
	"github.com/JaimeStill/agent-instances/internal/providers"
	"github.com/JaimeStill/agent-instances/internal/tools"
	"github.com/JaimeStill/agent-instances/pkg/auth"
)

// Domain errors for instance operations.
var (
	ErrNotFound        = errors.New("instance not found")
	ErrDuplicate       = errors.New("instance already exists for agent")
	ErrInvalidArgument = errors.New("invalid argument")
)

// MapHTTPStatus maps instance errors, and the collaborator errors a chat call
// can surface, to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidArgument),
		errors.Is(err, tools.ErrInvalidArgument),
		errors.Is(err, completions.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, tools.ErrUnauthorized),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound),
		errors.Is(err, agents.ErrNotFound),
		errors.Is(err, models.ErrNotFound),
		errors.Is(err, providers.ErrNotFound),
		errors.Is(err, tools.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, completions.ErrUpstream), errors.Is(err, completions.ErrRoundLimit):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
