package completions

import (
	"context"
	"log/slog"

	"github.com/tmc/langchaingo/callbacks"
)

type toolNameKey struct{}

// ToolName returns the name of the tool being invoked when ctx was passed to a
// tool callback.
func ToolName(ctx context.Context) string {
	name, _ := ctx.Value(toolNameKey{}).(string)
	return name
}

// Option configures a Client.
type Option func(*Client)

// WithCallbacks replaces the handler notified around tool calls and upstream
// failures.
func WithCallbacks(h callbacks.Handler) Option {
	return func(c *Client) {
		c.callbacks = h
	}
}

// logHandler reports tool activity through slog.
type logHandler struct {
	callbacks.SimpleHandler
	logger *slog.Logger
}

var _ callbacks.Handler = logHandler{}

func (h logHandler) HandleToolStart(ctx context.Context, input string) {
	h.logger.DebugContext(ctx, "tool call started", "tool", ToolName(ctx), "input_bytes", len(input))
}

func (h logHandler) HandleToolEnd(ctx context.Context, output string) {
	h.logger.DebugContext(ctx, "tool call", "tool", ToolName(ctx), "output_bytes", len(output))
}

func (h logHandler) HandleToolError(ctx context.Context, err error) {
	h.logger.WarnContext(ctx, "tool call failed", "tool", ToolName(ctx), "error", err)
}

func (h logHandler) HandleLLMError(ctx context.Context, err error) {
	h.logger.WarnContext(ctx, "completion failed", "error", err)
}
