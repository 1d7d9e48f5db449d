package instances_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/JaimeStill/agent-instances/internal/agents"
	"github.com/JaimeStill/agent-instances/internal/completions"
	"github.com/JaimeStill/agent-instances/internal/instances"
	"github.com/JaimeStill/agent-instances/internal/models"
	"github.com/JaimeStill/agent-instances/internal/providers"
	"github.com/JaimeStill/agent-instances/internal/tools"
	"github.com/google/uuid"
)

var now = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory Store that counts writes.
type memStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]instances.Instance
	tick time.Time

	inserts, replaces, patches, deletes int

	beforeInsert func(s *memStore)
	insertErr    error
}

func newMemStore() *memStore {
	return &memStore{
		rows: make(map[uuid.UUID]instances.Instance),
		tick: now.Add(-time.Hour),
	}
}

func (s *memStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inserts + s.replaces + s.patches + s.deletes
}

// seed stores inst directly with increasing created_at values.
func (s *memStore) seed(inst instances.Instance) instances.Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(inst)
}

func (s *memStore) put(inst instances.Instance) instances.Instance {
	if inst.ID == uuid.Nil {
		inst.ID = uuid.New()
	}
	s.tick = s.tick.Add(time.Minute)
	inst.CreatedAt = s.tick
	inst.UpdatedAt = s.tick
	s.rows[inst.ID] = inst
	return inst
}

func (s *memStore) find(title string, agentID uuid.UUID) (instances.Instance, bool) {
	var (
		best  instances.Instance
		found bool
	)
	for _, r := range s.rows {
		if r.Title == title && r.AgentID == agentID && (!found || r.CreatedAt.After(best.CreatedAt)) {
			best, found = r, true
		}
	}
	return best, found
}

func (s *memStore) FindByTitleAndAgent(_ context.Context, title string, agentID uuid.UUID) (*instances.Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.find(title, agentID)
	if !ok {
		return nil, instances.ErrNotFound
	}
	return &r, nil
}

func (s *memStore) Find(_ context.Context, id uuid.UUID) (*instances.Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[id]
	if !ok {
		return nil, instances.ErrNotFound
	}
	return &r, nil
}

func (s *memStore) FindRenamed(_ context.Context, title string, agentID uuid.UUID) (*instances.Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		best  instances.Instance
		found bool
	)
	for _, r := range s.rows {
		if r.AgentID != agentID || r.Title != title+" "+r.ID.String() {
			continue
		}
		if !found || r.CreatedAt.After(best.CreatedAt) {
			best, found = r, true
		}
	}
	if !found {
		return nil, instances.ErrNotFound
	}
	return &best, nil
}

func (s *memStore) Insert(_ context.Context, inst instances.Instance) (*instances.Instance, error) {
	if s.beforeInsert != nil {
		s.beforeInsert(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.inserts++
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	if _, ok := s.find(inst.Title, inst.AgentID); ok {
		return nil, instances.ErrDuplicate
	}

	inst.ID = uuid.Nil
	r := s.put(inst)
	return &r, nil
}

func (s *memStore) Replace(_ context.Context, inst instances.Instance) (*instances.Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaces++
	existing, ok := s.rows[inst.ID]
	if !ok {
		return nil, instances.ErrNotFound
	}

	existing.Title = inst.Title
	existing.AgentID = inst.AgentID
	existing.ChatHistory = slices.Clone(inst.ChatHistory)
	existing.UpdatedAt = now
	s.rows[inst.ID] = existing
	return &existing, nil
}

func (s *memStore) Patch(_ context.Context, id uuid.UUID, cmd instances.UpdateCommand) (*instances.Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.patches++
	existing, ok := s.rows[id]
	if !ok {
		return nil, instances.ErrNotFound
	}
	if cmd.Title != nil {
		existing.Title = *cmd.Title
	}
	if cmd.AgentID != nil {
		existing.AgentID = *cmd.AgentID
	}
	if cmd.ChatHistory != nil {
		existing.ChatHistory = *cmd.ChatHistory
	}
	s.rows[id] = existing
	return &existing, nil
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deletes++
	if _, ok := s.rows[id]; !ok {
		return instances.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *memStore) ListByAgent(_ context.Context, agentID uuid.UUID, createdBefore time.Time, limit int) ([]instances.Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []instances.Instance
	for _, r := range s.rows {
		if r.AgentID == agentID && r.CreatedAt.Before(createdBefore) {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b instances.Instance) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type visibleCall struct {
	limit         int
	createdBefore time.Time
	userID        uuid.UUID
}

type fakeAgents struct {
	byID    map[uuid.UUID]agents.Agent
	visible []agents.Agent
	calls   []visibleCall
}

func (f *fakeAgents) Find(_ context.Context, id uuid.UUID) (*agents.Agent, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, agents.ErrNotFound
	}
	return &a, nil
}

func (f *fakeAgents) ListVisible(_ context.Context, limit int, createdBefore time.Time, userID uuid.UUID) ([]agents.Agent, error) {
	f.calls = append(f.calls, visibleCall{limit, createdBefore, userID})
	return f.visible, nil
}

type fakeModels map[uuid.UUID]models.Model

func (f fakeModels) Find(_ context.Context, id uuid.UUID) (*models.Model, error) {
	m, ok := f[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &m, nil
}

type fakeProviders map[uuid.UUID]providers.Provider

func (f fakeProviders) Find(_ context.Context, id uuid.UUID) (*providers.Provider, error) {
	p, ok := f[id]
	if !ok {
		return nil, providers.ErrNotFound
	}
	return &p, nil
}

type fakeTools struct {
	mu      sync.Mutex
	byName  map[string]tools.Tool
	delay   map[string]time.Duration
	lookups []string
}

func (f *fakeTools) FindByHandle(ctx context.Context, accessToken, handle string, userID uuid.UUID) (*tools.Tool, error) {
	f.mu.Lock()
	f.lookups = append(f.lookups, handle)
	d := f.delay[handle]
	t, ok := f.byName[handle]
	f.mu.Unlock()

	if d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if accessToken == "" {
		return nil, tools.ErrUnauthorized
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", tools.ErrNotFound, handle)
	}
	return &t, nil
}

type fakeCompleter struct {
	answer   string
	err      error
	requests []completions.Request
}

func (f *fakeCompleter) CallWithFunctionCalling(_ context.Context, req completions.Request) (*completions.Result, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &completions.Result{Answer: f.answer, Rounds: 1}, nil
}

// fixture wires one agent, model and provider around a memStore.
type fixture struct {
	store     *memStore
	agents    *fakeAgents
	tools     *fakeTools
	completer *fakeCompleter
	agent     agents.Agent
	model     models.Model
	provider  providers.Provider
	sys       instances.System
}

func newFixture(refs ...agents.ToolRef) *fixture {
	provider := providers.Provider{ID: uuid.New(), Name: "local", APIURL: "http://llm.local/v1", APIKey: "sk-test"}
	model := models.Model{ID: uuid.New(), Name: "gpt-test", ProviderID: provider.ID, Params: map[string]any{"temperature": 0.2}}
	agent := agents.Agent{ID: uuid.New(), Name: "forecaster", ModelID: model.ID, Prompt: "You are a forecaster.", Tools: refs}

	f := &fixture{
		store:     newMemStore(),
		agents:    &fakeAgents{byID: map[uuid.UUID]agents.Agent{agent.ID: agent}},
		tools:     &fakeTools{byName: map[string]tools.Tool{}, delay: map[string]time.Duration{}},
		completer: &fakeCompleter{answer: "Sunny."},
		agent:     agent,
		model:     model,
		provider:  provider,
	}

	f.sys = instances.New(f.store, instances.Systems{
		Agents:    f.agents,
		Models:    fakeModels{model.ID: model},
		Providers: fakeProviders{provider.ID: provider},
		Tools:     f.tools,
		Completer: f.completer,
	}, instances.Config{}, discard(), instances.WithClock(func() time.Time { return now }))

	return f
}
