// Package completions runs function-calling chat rounds against an
// OpenAI-compatible chat completions endpoint.
package completions

import (
	"context"

	"github.com/tmc/langchaingo/tools"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Tool is a function the model may call. Call receives the raw JSON
// arguments chosen by the model.
type Tool interface {
	tools.Tool
	Parameters() map[string]any
}

// Completer is the chat collaborator consumed by the instance manager.
type Completer interface {
	CallWithFunctionCalling(ctx context.Context, req Request) (*Result, error)
}

// Message is a single conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes one chat call.
type Request struct {
	Endpoint string
	APIKey   string
	Model    string
	Params   map[string]any
	Prompt   string
	Tools    []Tool
	Input    string
	History  []Message
	UserID   string
}

// ToolCall records a tool invocation made during a chat call.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
	Output    string `json:"output"`
}

// Usage accumulates token counts across every round.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func (u *Usage) add(o Usage) {
	u.PromptTokens += o.PromptTokens
	u.CompletionTokens += o.CompletionTokens
	u.TotalTokens += o.TotalTokens
}

// Result is the outcome of a chat call.
type Result struct {
	Answer    string     `json:"answer"`
	Rounds    int        `json:"rounds"`
	ToolCalls []ToolCall `json:"tool_calls"`
	Usage     Usage      `json:"usage"`
}
