package instances

import (
	"context"
	"time"

	"github.com/JaimeStill/agent-instances/internal/agents"
	"github.com/JaimeStill/agent-instances/internal/completions"
	"github.com/JaimeStill/agent-instances/internal/models"
	"github.com/JaimeStill/agent-instances/internal/providers"
	"github.com/JaimeStill/agent-instances/internal/tools"
	"github.com/google/uuid"
)

// System is the instance lifecycle manager.
type System interface {
	// Chat runs one function-calling round for inst and persists the
	// exchange. On success inst is replaced by the persisted row; on failure
	// it is left untouched and nothing is written.
	Chat(ctx context.Context, inst *Instance, input, accessToken string, userID uuid.UUID) (*completions.Result, error)

	// Save creates or updates inst keyed by (Title, AgentID). A new row's
	// title becomes "{title} {id}".
	Save(ctx context.Context, inst Instance) (*Instance, error)

	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Instance, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByTitleAndAgent returns ErrNotFound when no row has the pair.
	FindByTitleAndAgent(ctx context.Context, title string, agentID uuid.UUID) (*Instance, error)
	Find(ctx context.Context, id uuid.UUID) (*Instance, error)

	// List returns up to limit instances per agent visible to userID,
	// concatenated in agent order.
	List(ctx context.Context, limit int, createdBefore time.Time, userID uuid.UUID) ([]Instance, error)
}

// AgentSource is the agent lookup the manager consumes.
type AgentSource interface {
	Find(ctx context.Context, id uuid.UUID) (*agents.Agent, error)
	ListVisible(ctx context.Context, limit int, createdBefore time.Time, userID uuid.UUID) ([]agents.Agent, error)
}

// ModelSource is the model lookup the manager consumes.
type ModelSource interface {
	Find(ctx context.Context, id uuid.UUID) (*models.Model, error)
}

// ProviderSource is the provider lookup the manager consumes.
type ProviderSource interface {
	Find(ctx context.Context, id uuid.UUID) (*providers.Provider, error)
}

// ToolSource resolves a tool handle for a user.
type ToolSource interface {
	FindByHandle(ctx context.Context, accessToken, handle string, userID uuid.UUID) (*tools.Tool, error)
}

// Systems provides the collaborators a chat call reaches.
type Systems struct {
	Agents    AgentSource
	Models    ModelSource
	Providers ProviderSource
	Tools     ToolSource
	Completer completions.Completer

	// Callable adapts a resolved tool for the model to call.
	Callable func(tools.Tool) completions.Tool
}
