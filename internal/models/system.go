// Package models manages the LLM models agents are bound to.
package models

import (
	"context"

	"github.com/JaimeStill/agent-instances/pkg/pagination"
	"github.com/google/uuid"
)

// System defines the interface for model management.
type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Model], error)

	// Find retrieves a model by ID.
	// Returns ErrNotFound if the model does not exist.
	Find(ctx context.Context, id uuid.UUID) (*Model, error)

	// Create stores a new model.
	// Returns ErrProvider if the referenced provider does not exist.
	Create(ctx context.Context, cmd CreateCommand) (*Model, error)

	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Model, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
