package instances_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/agent-instances/internal/agents"
	"github.com/JaimeStill/agent-instances/internal/completions"
	"github.com/JaimeStill/agent-instances/internal/instances"
	"github.com/JaimeStill/agent-instances/internal/tools"
	"github.com/google/uuid"
)

func TestChat_AppendsExchangeAndPersists(t *testing.T) {
	f := newFixture(
		agents.Unresolved("weather"),
		agents.Resolved(tools.Tool{Handle: "calendar", Description: "Reads events"}),
	)
	f.tools.byName["weather"] = tools.Tool{Handle: "weather", Description: "Forecasts"}

	prior := history("hi", "hello")
	inst := &instances.Instance{Title: "planning", AgentID: f.agent.ID, ChatHistory: prior}
	user := uuid.New()

	result, err := f.sys.Chat(context.Background(), inst, "Rain tomorrow?", "token", user)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if result.Answer != "Sunny." {
		t.Errorf("Answer = %q, want %q", result.Answer, "Sunny.")
	}

	want := append(prior.Clone(),
		instances.Message{Role: completions.RoleUser, Content: "Rain tomorrow?"},
		instances.Message{Role: completions.RoleAssistant, Content: "Sunny."},
	)
	if !inst.ChatHistory.Equal(want) {
		t.Errorf("ChatHistory = %v, want %v", inst.ChatHistory, want)
	}

	if inst.ID == uuid.Nil || inst.Title != "planning "+inst.ID.String() {
		t.Errorf("inst = (%v, %q), want the persisted row", inst.ID, inst.Title)
	}
	if f.store.inserts != 1 {
		t.Errorf("inserts = %d, want 1", f.store.inserts)
	}

	if len(f.completer.requests) != 1 {
		t.Fatalf("completer calls = %d, want 1", len(f.completer.requests))
	}
	req := f.completer.requests[0]

	if req.Endpoint != f.provider.APIURL || req.APIKey != f.provider.APIKey || req.Model != f.model.Name {
		t.Errorf("request target = (%q, %q, %q), want provider and model values", req.Endpoint, req.APIKey, req.Model)
	}
	if req.Input != "Rain tomorrow?" || req.UserID != user.String() {
		t.Errorf("request input/user = (%q, %q)", req.Input, req.UserID)
	}
	if !instances.History(req.History).Equal(prior) {
		t.Errorf("request history = %v, want prior history %v", req.History, prior)
	}
	if len(req.Tools) != 2 || req.Tools[0].Name() != "weather" || req.Tools[1].Name() != "calendar" {
		t.Errorf("request tools out of order")
	}

	wantPrompt := "You are a forecaster.\n\n2026-10-19 09:30:00\n\n" +
		"\n\nweather: Forecasts\n\n" +
		"\n\ncalendar: Reads events\n\n"
	if req.Prompt != wantPrompt {
		t.Errorf("Prompt = %q, want %q", req.Prompt, wantPrompt)
	}
}

func TestChat_UpdatesExistingInstance(t *testing.T) {
	f := newFixture()
	existing := f.store.seed(instances.Instance{Title: "planning", AgentID: f.agent.ID, ChatHistory: history("hi", "hello")})

	inst := existing
	if _, err := f.sys.Chat(context.Background(), &inst, "again", "", uuid.New()); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if f.store.inserts != 0 || f.store.replaces != 1 {
		t.Errorf("inserts = %d, replaces = %d, want 0 and 1", f.store.inserts, f.store.replaces)
	}
	if len(inst.ChatHistory) != 4 {
		t.Errorf("len(ChatHistory) = %d, want 4", len(inst.ChatHistory))
	}
	if inst.ID != existing.ID {
		t.Errorf("ID = %v, want %v", inst.ID, existing.ID)
	}
}

func TestChat_AbortsWhenToolUnresolved(t *testing.T) {
	f := newFixture(agents.Unresolved("weather"), agents.Unresolved("missing"))
	f.tools.byName["weather"] = tools.Tool{Handle: "weather"}

	inst := &instances.Instance{Title: "planning", AgentID: f.agent.ID, ChatHistory: history("hi", "hello")}
	before := *inst

	_, err := f.sys.Chat(context.Background(), inst, "Rain?", "token", uuid.New())
	if !errors.Is(err, tools.ErrNotFound) {
		t.Fatalf("Chat() error = %v, want tools.ErrNotFound", err)
	}

	if len(f.completer.requests) != 0 {
		t.Error("completer was called after a tool failed to resolve")
	}
	if w := f.store.writes(); w != 0 {
		t.Errorf("writes = %d, want 0", w)
	}
	if !inst.ChatHistory.Equal(before.ChatHistory) || inst.ID != before.ID {
		t.Error("instance was modified by a failed chat")
	}
}

func TestChat_CollaboratorErrorsPropagate(t *testing.T) {
	upstream := errors.New("provider unavailable")

	tests := []struct {
		name    string
		setup   func(f *fixture) *instances.Instance
		wantErr error
	}{
		{
			name: "unknown agent",
			setup: func(f *fixture) *instances.Instance {
				return &instances.Instance{Title: "planning", AgentID: uuid.New()}
			},
			wantErr: agents.ErrNotFound,
		},
		{
			name: "nil instance",
			setup: func(f *fixture) *instances.Instance {
				return nil
			},
			wantErr: instances.ErrInvalidArgument,
		},
		{
			name: "completer failure",
			setup: func(f *fixture) *instances.Instance {
				f.completer.err = upstream
				return &instances.Instance{Title: "planning", AgentID: f.agent.ID}
			},
			wantErr: upstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			inst := tt.setup(f)

			_, err := f.sys.Chat(context.Background(), inst, "hi", "token", uuid.New())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Chat() error = %v, want %v", err, tt.wantErr)
			}
			if w := f.store.writes(); w != 0 {
				t.Errorf("writes = %d, want 0", w)
			}
			if inst != nil && len(inst.ChatHistory) != 0 {
				t.Errorf("ChatHistory = %v, want unchanged", inst.ChatHistory)
			}
		})
	}
}

func TestChat_ConcurrentResolutionKeepsAgentOrder(t *testing.T) {
	handles := []string{"a", "b", "c", "d", "e", "f"}

	refs := make([]agents.ToolRef, len(handles))
	for i, h := range handles {
		refs[i] = agents.Unresolved(h)
	}

	f := newFixture(refs...)
	for i, h := range handles {
		f.tools.byName[h] = tools.Tool{Handle: h, Description: "tool " + h}
		f.tools.delay[h] = time.Duration(len(handles)-i) * 5 * time.Millisecond
	}

	inst := &instances.Instance{Title: "planning", AgentID: f.agent.ID}
	if _, err := f.sys.Chat(context.Background(), inst, "go", "token", uuid.New()); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	prompt := f.completer.requests[0].Prompt
	last := -1
	for _, h := range handles {
		idx := strings.Index(prompt, "\n\n"+h+": tool "+h+"\n\n")
		if idx < 0 {
			t.Fatalf("prompt missing tool %q", h)
		}
		if idx < last {
			t.Errorf("tool %q appears out of agent order", h)
		}
		last = idx
	}
}

func TestChat_ToolResolutionNeedsCredential(t *testing.T) {
	f := newFixture(agents.Unresolved("weather"))
	f.tools.byName["weather"] = tools.Tool{Handle: "weather"}

	inst := &instances.Instance{Title: "planning", AgentID: f.agent.ID}
	_, err := f.sys.Chat(context.Background(), inst, "hi", "", uuid.New())
	if !errors.Is(err, tools.ErrUnauthorized) {
		t.Errorf("Chat() error = %v, want tools.ErrUnauthorized", err)
	}
}
