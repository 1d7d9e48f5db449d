package completions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/callbacks"
)

const errorBodyLimit = 4 * 1024

// Client calls chat completions endpoints and executes requested tool calls
// until the model produces a final answer.
type Client struct {
	http            *http.Client
	maxRounds       int
	maxResponseSize int64
	logger          *slog.Logger
	callbacks       callbacks.Handler
}

// New creates a client from cfg. cfg must already be finalized. Tool activity
// is logged unless WithCallbacks installs another handler.
func New(cfg *Config, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		http:            &http.Client{Timeout: cfg.TimeoutDuration()},
		maxRounds:       cfg.MaxRounds,
		maxResponseSize: cfg.MaxResponseSizeBytes(),
		logger:          logger.With("system", "completions"),
	}
	c.callbacks = logHandler{logger: c.logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CallWithFunctionCalling sends the conversation and resolves tool calls for
// at most the configured number of rounds.
func (c *Client) CallWithFunctionCalling(ctx context.Context, req Request) (*Result, error) {
	if req.Endpoint == "" || req.Model == "" {
		return nil, fmt.Errorf("%w: endpoint and model required", ErrInvalidInput)
	}

	messages := make([]wireMessage, 0, len(req.History)+2)
	messages = append(messages, wireMessage{Role: RoleSystem, Content: req.Prompt})
	for _, m := range req.History {
		if m.Role == RoleUser || m.Role == RoleAssistant {
			messages = append(messages, wireMessage{Role: m.Role, Content: m.Content})
		}
	}
	messages = append(messages, wireMessage{Role: RoleUser, Content: req.Input})

	registry := make(map[string]Tool, len(req.Tools))
	for _, t := range req.Tools {
		registry[t.Name()] = t
	}
	defs := toolDefs(req.Tools)

	result := &Result{ToolCalls: []ToolCall{}}

	for round := 1; round <= c.maxRounds; round++ {
		resp, err := c.send(ctx, req, messages, defs)
		if err != nil {
			c.callbacks.HandleLLMError(ctx, err)
			return nil, err
		}
		result.Usage.add(resp.Usage)
		result.Rounds = round

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			result.Answer = msg.Content
			c.logger.Debug("chat complete", "model", req.Model, "rounds", round)
			return result, nil
		}

		messages = append(messages, wireMessage{
			Role:      RoleAssistant,
			Content:   msg.Content,
			ToolCalls: msg.ToolCalls,
		})

		seen := make(map[string]bool, len(msg.ToolCalls))
		for _, call := range msg.ToolCalls {
			if seen[call.ID] {
				continue
			}
			seen[call.ID] = true

			output := c.invoke(ctx, registry, call)
			result.ToolCalls = append(result.ToolCalls, ToolCall{
				ID:        call.ID,
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
				Output:    output,
			})

			messages = append(messages, wireMessage{
				Role:       RoleTool,
				Content:    output,
				ToolCallID: call.ID,
			})
		}
	}

	return nil, fmt.Errorf("%w: %d rounds", ErrRoundLimit, c.maxRounds)
}

// invoke runs one tool call. Failures are reported back to the model as text.
func (c *Client) invoke(ctx context.Context, registry map[string]Tool, call wireToolCall) string {
	name := call.Function.Name

	t, ok := registry[name]
	if !ok {
		c.logger.Warn("unknown tool requested", "tool", name)
		return "Unknown tool: " + name
	}

	ctx = context.WithValue(ctx, toolNameKey{}, name)
	c.callbacks.HandleToolStart(ctx, call.Function.Arguments)

	output, err := t.Call(ctx, call.Function.Arguments)
	if err != nil {
		c.callbacks.HandleToolError(ctx, err)
		return "Error: " + err.Error()
	}

	c.callbacks.HandleToolEnd(ctx, output)
	return output
}

func (c *Client) send(ctx context.Context, req Request, messages []wireMessage, defs []wireTool) (*wireResponse, error) {
	body := make(map[string]any, len(req.Params)+4)
	maps.Copy(body, req.Params)
	body["model"] = req.Model
	body["messages"] = messages
	if len(defs) > 0 {
		body["tools"] = defs
	}
	if req.UserID != "" {
		body["user"] = req.UserID
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(req.Endpoint, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded wireResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, c.maxResponseSize)).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", ErrUpstream)
	}

	return &decoded, nil
}
