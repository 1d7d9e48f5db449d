// Package tools manages MCP tool manifests: validation, persistence, user-scoped
// lookup, and invocation on behalf of a model.
package tools

import (
	"context"

	"github.com/JaimeStill/agent-instances/pkg/auth"
	"github.com/JaimeStill/agent-instances/pkg/pagination"
	"github.com/google/uuid"
)

// TokenVerifier checks the caller's access token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// System defines the interface for tool manifest management.
type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Tool], error)

	// Find retrieves a tool by ID.
	// Returns ErrNotFound if the tool does not exist.
	Find(ctx context.Context, id uuid.UUID) (*Tool, error)

	// FindByHandle resolves handle for userID, preferring the user's own tool over
	// a public one. accessToken must be a valid token whose subject is userID.
	// Returns ErrUnauthorized for a bad token and ErrNotFound when nothing matches.
	FindByHandle(ctx context.Context, accessToken, handle string, userID uuid.UUID) (*Tool, error)

	// Create validates and stores a new manifest.
	// Returns ErrValidation or ErrDuplicate on failure.
	Create(ctx context.Context, cmd Command) (*Tool, error)

	Update(ctx context.Context, id uuid.UUID, cmd Command) (*Tool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
