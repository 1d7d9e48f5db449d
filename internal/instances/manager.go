package instances

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/agent-instances/internal/completions"
	"github.com/JaimeStill/agent-instances/internal/tools"
	"github.com/google/uuid"
)

type manager struct {
	store   Store
	systems Systems
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a manager.
type Option func(*manager)

// WithClock replaces time.Now, which stamps prompts and bounds List.
func WithClock(now func() time.Time) Option {
	return func(m *manager) { m.now = now }
}

// New creates the instance lifecycle manager.
func New(store Store, systems Systems, cfg Config, logger *slog.Logger, opts ...Option) System {
	m := &manager{
		store:   store,
		systems: systems,
		cfg:     cfg,
		logger:  logger.With("system", "instance"),
		now:     time.Now,
	}
	m.cfg.loadDefaults()
	for _, opt := range opts {
		opt(m)
	}
	if m.systems.Callable == nil {
		m.systems.Callable = func(t tools.Tool) completions.Tool {
			return tools.NewCallable(t, nil, defaultToolResponse)
		}
	}
	return m
}

const defaultToolResponse = 4 << 20

func (m *manager) Chat(ctx context.Context, inst *Instance, input, accessToken string, userID uuid.UUID) (*completions.Result, error) {
	if inst == nil || inst.AgentID == uuid.Nil {
		return nil, fmt.Errorf("%w: instance with an agent required", ErrInvalidArgument)
	}

	agent, err := m.systems.Agents.Find(ctx, inst.AgentID)
	if err != nil {
		return nil, fmt.Errorf("find agent %s: %w", inst.AgentID, err)
	}

	model, err := m.systems.Models.Find(ctx, agent.ModelID)
	if err != nil {
		return nil, fmt.Errorf("find model %s: %w", agent.ModelID, err)
	}

	provider, err := m.systems.Providers.Find(ctx, model.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("find provider %s: %w", model.ProviderID, err)
	}

	resolved, err := m.resolveTools(ctx, agent.Tools, accessToken, userID)
	if err != nil {
		return nil, err
	}

	callables := make([]completions.Tool, len(resolved))
	for i, t := range resolved {
		callables[i] = m.systems.Callable(t)
	}

	result, err := m.systems.Completer.CallWithFunctionCalling(ctx, completions.Request{
		Endpoint: provider.APIURL,
		APIKey:   provider.APIKey,
		Model:    model.Name,
		Params:   model.Params,
		Prompt:   buildPrompt(agent.Prompt, m.now(), resolved),
		Tools:    callables,
		Input:    input,
		History:  inst.ChatHistory,
		UserID:   userID.String(),
	})
	if err != nil {
		return nil, err
	}

	next := *inst
	next.ChatHistory = append(inst.ChatHistory.Clone(),
		Message{Role: completions.RoleUser, Content: input},
		Message{Role: completions.RoleAssistant, Content: result.Answer},
	)

	saved, err := m.Save(ctx, next)
	if err != nil {
		return nil, err
	}

	*inst = *saved
	return result, nil
}

func (m *manager) Save(ctx context.Context, inst Instance) (*Instance, error) {
	if inst.Title == "" || inst.AgentID == uuid.Nil {
		return nil, fmt.Errorf("%w: title and agent id required", ErrInvalidArgument)
	}

	existing, err := m.store.FindByTitleAndAgent(ctx, inst.Title, inst.AgentID)
	switch {
	case errors.Is(err, ErrNotFound):
		return m.insert(ctx, inst)
	case err != nil:
		m.logger.Error("instance lookup failed", "title", inst.Title, "agent_id", inst.AgentID, "error", err)
		return nil, err
	}

	changed := diff(*existing, inst)
	if len(changed) == 0 {
		m.logger.Debug("instance unchanged", "id", existing.ID)
		return existing, nil
	}

	inst.ID = existing.ID
	updated, err := m.store.Replace(ctx, inst)
	if err != nil {
		m.logger.Error("instance update failed", "id", existing.ID, "error", err)
		return nil, err
	}

	m.logger.Info("instance updated", "id", updated.ID, "fields", changed)
	return updated, nil
}

// winner resolves the row that beat inst to the insert. The winning call may
// already have rewritten its title to "{title} {id}".
func (m *manager) winner(ctx context.Context, inst Instance) (*Instance, error) {
	found, err := m.store.FindByTitleAndAgent(ctx, inst.Title, inst.AgentID)
	if !errors.Is(err, ErrNotFound) {
		return found, err
	}
	return m.store.FindRenamed(ctx, inst.Title, inst.AgentID)
}

func (m *manager) insert(ctx context.Context, inst Instance) (*Instance, error) {
	created, err := m.store.Insert(ctx, inst)
	if errors.Is(err, ErrDuplicate) {
		m.logger.Warn("instance insert raced", "title", inst.Title, "agent_id", inst.AgentID)
		return m.winner(ctx, inst)
	}
	if err != nil {
		m.logger.Error("instance insert failed", "title", inst.Title, "agent_id", inst.AgentID, "error", err)
		return nil, err
	}

	created.Title = fmt.Sprintf("%s %s", created.Title, created.ID)
	renamed, err := m.store.Replace(ctx, *created)
	if err != nil {
		m.logger.Error("instance title rewrite failed", "id", created.ID, "error", err)
		return nil, err
	}

	m.logger.Info("instance created", "id", renamed.ID, "title", renamed.Title)
	return renamed, nil
}

func (m *manager) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Instance, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: id required", ErrInvalidArgument)
	}
	if cmd.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidArgument)
	}
	if cmd.Title != nil && *cmd.Title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidArgument)
	}
	if cmd.AgentID != nil && *cmd.AgentID == uuid.Nil {
		return nil, fmt.Errorf("%w: agent id cannot be empty", ErrInvalidArgument)
	}

	updated, err := m.store.Patch(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	m.logger.Info("instance patched", "id", id)
	return updated, nil
}

func (m *manager) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: id required", ErrInvalidArgument)
	}

	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}

	m.logger.Info("instance deleted", "id", id)
	return nil
}

func (m *manager) FindByTitleAndAgent(ctx context.Context, title string, agentID uuid.UUID) (*Instance, error) {
	if title == "" || agentID == uuid.Nil {
		return nil, fmt.Errorf("%w: title and agent id required", ErrInvalidArgument)
	}
	return m.store.FindByTitleAndAgent(ctx, title, agentID)
}

func (m *manager) Find(ctx context.Context, id uuid.UUID) (*Instance, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: id required", ErrInvalidArgument)
	}
	return m.store.Find(ctx, id)
}

func (m *manager) List(ctx context.Context, limit int, createdBefore time.Time, userID uuid.UUID) ([]Instance, error) {
	limit = m.cfg.ClampLimit(limit)
	if createdBefore.IsZero() {
		createdBefore = m.now()
	}

	visible, err := m.systems.Agents.ListVisible(ctx, limit, createdBefore, userID)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}

	out := make([]Instance, 0)
	for _, a := range visible {
		rows, err := m.store.ListByAgent(ctx, a.ID, createdBefore, limit)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

// diff names the writable fields that differ between the stored and incoming instance.
func diff(existing, incoming Instance) []string {
	var changed []string
	if existing.Title != incoming.Title {
		changed = append(changed, "title")
	}
	if existing.AgentID != incoming.AgentID {
		changed = append(changed, "agent_id")
	}
	if !existing.ChatHistory.Equal(incoming.ChatHistory) {
		changed = append(changed, "chat_history")
	}
	return changed
}
