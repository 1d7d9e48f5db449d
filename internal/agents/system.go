package agents

import (
	"context"
	"time"

	"github.com/JaimeStill/agent-instances/pkg/pagination"
	"github.com/google/uuid"
)

// System defines the interface for agent storage and retrieval operations.
type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Agent], error)

	// Find retrieves an agent by ID.
	// Returns ErrNotFound if the agent does not exist.
	Find(ctx context.Context, id uuid.UUID) (*Agent, error)

	// ListVisible returns agents owned by userID or marked public, created
	// before createdBefore, newest first, capped at limit. A uuid.Nil user
	// sees public agents only.
	ListVisible(ctx context.Context, limit int, createdBefore time.Time, userID uuid.UUID) ([]Agent, error)

	Create(ctx context.Context, cmd CreateCommand) (*Agent, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Agent, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
