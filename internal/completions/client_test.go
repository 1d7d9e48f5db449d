package completions_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/JaimeStill/agent-instances/internal/completions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/callbacks"
)

type fakeTool struct {
	name   string
	output string
	err    error
	calls  []string
}

func (f *fakeTool) Name() string        { return f.name }
func (f *fakeTool) Description() string { return "fake " + f.name }
func (f *fakeTool) Parameters() map[string]any {
	return map[string]any{"type": "object"}
}
func (f *fakeTool) Call(_ context.Context, input string) (string, error) {
	f.calls = append(f.calls, input)
	return f.output, f.err
}

// recordingHandler captures tool and upstream callbacks as "event tool detail".
type recordingHandler struct {
	callbacks.SimpleHandler
	events []string
}

func (h *recordingHandler) HandleToolStart(ctx context.Context, input string) {
	h.events = append(h.events, "start "+completions.ToolName(ctx)+" "+input)
}

func (h *recordingHandler) HandleToolEnd(ctx context.Context, output string) {
	h.events = append(h.events, "end "+completions.ToolName(ctx)+" "+output)
}

func (h *recordingHandler) HandleToolError(ctx context.Context, err error) {
	h.events = append(h.events, "error "+completions.ToolName(ctx)+" "+err.Error())
}

func (h *recordingHandler) HandleLLMError(_ context.Context, err error) {
	h.events = append(h.events, "llm "+err.Error())
}

type recordedRequest struct {
	Auth string
	Body map[string]any
}

// scriptedServer replies with each response in order and records every request.
func scriptedServer(t *testing.T, responses ...string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()

	var (
		mu       sync.Mutex
		recorded []recordedRequest
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		data, _ := io.ReadAll(r.Body)
		var body map[string]any
		assert.NoError(t, json.Unmarshal(data, &body))
		recorded = append(recorded, recordedRequest{Auth: r.Header.Get("Authorization"), Body: body})

		i := len(recorded) - 1
		if i >= len(responses) {
			i = len(responses) - 1
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, responses[i])
	}))
	t.Cleanup(srv.Close)

	return srv, &recorded
}

func newClient(t *testing.T, maxRounds int, opts ...completions.Option) *completions.Client {
	t.Helper()
	cfg := &completions.Config{MaxRounds: maxRounds}
	require.NoError(t, cfg.Finalize(nil))
	return completions.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), opts...)
}

const answerOnly = `{"choices":[{"message":{"role":"assistant","content":"hello there"}}],"usage":{"prompt_tokens":5,"completion_tokens":2,"total_tokens":7}}`

func toolCallResponse(calls string) string {
	return `{"choices":[{"message":{"role":"assistant","content":"","tool_calls":[` + calls + `]}}],"usage":{"prompt_tokens":3,"completion_tokens":1,"total_tokens":4}}`
}

func TestCallWithFunctionCalling_DirectAnswer(t *testing.T) {
	srv, recorded := scriptedServer(t, answerOnly)
	client := newClient(t, 6)

	result, err := client.CallWithFunctionCalling(context.Background(), completions.Request{
		Endpoint: srv.URL + "/v1/",
		APIKey:   "provider-key",
		Model:    "gpt-test",
		Params:   map[string]any{"temperature": 0.2, "model": "ignored"},
		Prompt:   "be helpful",
		Input:    "hi",
		History: []completions.Message{
			{Role: "user", Content: "earlier"},
			{Role: "assistant", Content: "reply"},
			{Role: "system", Content: "dropped"},
		},
		UserID: "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "hello there", result.Answer)
	assert.Equal(t, 1, result.Rounds)
	assert.Empty(t, result.ToolCalls)
	assert.Equal(t, 7, result.Usage.TotalTokens)

	require.Len(t, *recorded, 1)
	req := (*recorded)[0]
	assert.Equal(t, "Bearer provider-key", req.Auth)
	assert.Equal(t, "gpt-test", req.Body["model"])
	assert.Equal(t, 0.2, req.Body["temperature"])
	assert.Equal(t, "user-1", req.Body["user"])
	assert.NotContains(t, req.Body, "tools")

	messages := req.Body["messages"].([]any)
	require.Len(t, messages, 4)
	roles := make([]string, 0, len(messages))
	for _, m := range messages {
		roles = append(roles, m.(map[string]any)["role"].(string))
	}
	assert.Equal(t, []string{"system", "user", "assistant", "user"}, roles)
	assert.Equal(t, "be helpful", messages[0].(map[string]any)["content"])
	assert.Equal(t, "hi", messages[3].(map[string]any)["content"])
}

func TestCallWithFunctionCalling_ToolLoop(t *testing.T) {
	srv, recorded := scriptedServer(t,
		toolCallResponse(`
			{"id":"c1","type":"function","function":{"name":"weather","arguments":"{\"city\":\"Oslo\"}"}},
			{"id":"c1","type":"function","function":{"name":"weather","arguments":"{\"city\":\"Oslo\"}"}},
			{"id":"c2","type":"function","function":{"name":"missing","arguments":"{}"}},
			{"id":"c3","type":"function","function":{"name":"broken","arguments":"{}"}}`),
		answerOnly,
	)
	client := newClient(t, 6)

	weather := &fakeTool{name: "weather", output: "sunny"}
	broken := &fakeTool{name: "broken", err: errors.New("boom")}

	result, err := client.CallWithFunctionCalling(context.Background(), completions.Request{
		Endpoint: srv.URL + "/v1",
		Model:    "gpt-test",
		Tools:    []completions.Tool{weather, broken},
		Input:    "weather?",
	})
	require.NoError(t, err)

	assert.Equal(t, "hello there", result.Answer)
	assert.Equal(t, 2, result.Rounds)
	assert.Equal(t, 11, result.Usage.TotalTokens)
	assert.Equal(t, []string{`{"city":"Oslo"}`}, weather.calls)

	require.Len(t, result.ToolCalls, 3)
	assert.Equal(t, "sunny", result.ToolCalls[0].Output)
	assert.Equal(t, "Unknown tool: missing", result.ToolCalls[1].Output)
	assert.Equal(t, "Error: boom", result.ToolCalls[2].Output)

	require.Len(t, *recorded, 2)
	first := (*recorded)[0].Body
	tools := first["tools"].([]any)
	require.Len(t, tools, 2)
	fn := tools[0].(map[string]any)["function"].(map[string]any)
	assert.Equal(t, "weather", fn["name"])

	second := (*recorded)[1].Body["messages"].([]any)
	// system, user, assistant tool-call message, three tool results
	require.Len(t, second, 6)
	last := second[5].(map[string]any)
	assert.Equal(t, "tool", last["role"])
	assert.Equal(t, "c3", last["tool_call_id"])
}

func TestCallWithFunctionCalling_Callbacks(t *testing.T) {
	srv, _ := scriptedServer(t,
		toolCallResponse(`
			{"id":"c1","type":"function","function":{"name":"weather","arguments":"{\"city\":\"Oslo\"}"}},
			{"id":"c2","type":"function","function":{"name":"missing","arguments":"{}"}},
			{"id":"c3","type":"function","function":{"name":"broken","arguments":"{}"}}`),
		answerOnly,
	)
	handler := &recordingHandler{}
	client := newClient(t, 6, completions.WithCallbacks(handler))

	_, err := client.CallWithFunctionCalling(context.Background(), completions.Request{
		Endpoint: srv.URL + "/v1",
		Model:    "gpt-test",
		Tools: []completions.Tool{
			&fakeTool{name: "weather", output: "sunny"},
			&fakeTool{name: "broken", err: errors.New("boom")},
		},
		Input: "weather?",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		`start weather {"city":"Oslo"}`,
		"end weather sunny",
		"start broken {}",
		"error broken boom",
	}, handler.events)
}

func TestCallWithFunctionCalling_UpstreamErrorCallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, "down")
	}))
	defer srv.Close()

	handler := &recordingHandler{}
	_, err := newClient(t, 6, completions.WithCallbacks(handler)).CallWithFunctionCalling(context.Background(), completions.Request{
		Endpoint: srv.URL,
		Model:    "gpt-test",
		Input:    "hi",
	})
	require.ErrorIs(t, err, completions.ErrUpstream)

	require.Len(t, handler.events, 1)
	assert.Contains(t, handler.events[0], "llm ")
	assert.Contains(t, handler.events[0], "status 503")
}

func TestCallWithFunctionCalling_RoundLimit(t *testing.T) {
	srv, recorded := scriptedServer(t,
		toolCallResponse(`{"id":"c1","type":"function","function":{"name":"weather","arguments":"{}"}}`),
	)
	client := newClient(t, 2)

	_, err := client.CallWithFunctionCalling(context.Background(), completions.Request{
		Endpoint: srv.URL + "/v1",
		Model:    "gpt-test",
		Tools:    []completions.Tool{&fakeTool{name: "weather", output: "sunny"}},
		Input:    "loop",
	})
	assert.ErrorIs(t, err, completions.ErrRoundLimit)
	assert.Len(t, *recorded, 2)
}

func TestCallWithFunctionCalling_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"message":"down"}}`, completions.ErrUpstream},
		{"unauthorized", http.StatusUnauthorized, `nope`, completions.ErrUpstream},
		{"empty choices", http.StatusOK, `{"choices":[]}`, completions.ErrUpstream},
		{"error payload", http.StatusOK, `{"choices":[],"error":{"message":"quota"}}`, completions.ErrUpstream},
		{"malformed", http.StatusOK, `{`, completions.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := newClient(t, 6).CallWithFunctionCalling(context.Background(), completions.Request{
				Endpoint: srv.URL,
				Model:    "gpt-test",
				Input:    "hi",
			})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, http.StatusBadGateway, completions.MapHTTPStatus(err))
		})
	}
}

func TestCallWithFunctionCalling_InvalidRequest(t *testing.T) {
	_, err := newClient(t, 6).CallWithFunctionCalling(context.Background(), completions.Request{Input: "hi"})
	assert.ErrorIs(t, err, completions.ErrInvalidInput)
	assert.Equal(t, http.StatusBadRequest, completions.MapHTTPStatus(err))
}

func TestConfig_Finalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := &completions.Config{}
		require.NoError(t, cfg.Finalize(nil))
		assert.Equal(t, 6, cfg.MaxRounds)
		assert.Equal(t, int64(4_000_000), cfg.MaxResponseSizeBytes())
		assert.Equal(t, "2m0s", cfg.TimeoutDuration().String())
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("TEST_COMPLETIONS_MAX_ROUNDS", "3")
		cfg := &completions.Config{}
		require.NoError(t, cfg.Finalize(&completions.Env{MaxRounds: "TEST_COMPLETIONS_MAX_ROUNDS"}))
		assert.Equal(t, 3, cfg.MaxRounds)
	})

	t.Run("invalid size", func(t *testing.T) {
		cfg := &completions.Config{MaxResponseSize: "lots"}
		assert.Error(t, cfg.Finalize(nil))
	})
}
