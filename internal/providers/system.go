// Package providers manages the OpenAI-compatible endpoints models are served from.
package providers

import (
	"context"

	"github.com/JaimeStill/agent-instances/pkg/pagination"
	"github.com/google/uuid"
)

// System defines the interface for provider management.
type System interface {
	// List returns a paginated list of providers matching the filter criteria.
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Provider], error)

	// Find retrieves a provider by ID.
	// Returns ErrNotFound if the provider does not exist.
	Find(ctx context.Context, id uuid.UUID) (*Provider, error)

	// Create validates and stores a new provider.
	// Returns ErrDuplicate if a provider with the same name exists.
	Create(ctx context.Context, cmd CreateCommand) (*Provider, error)

	// Update modifies an existing provider.
	// Returns ErrNotFound if the provider does not exist.
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Provider, error)

	// Delete removes a provider by ID.
	// Returns ErrNotFound if the provider does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
