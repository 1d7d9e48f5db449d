package tools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/JaimeStill/agent-instances/pkg/decode"
	lctools "github.com/tmc/langchaingo/tools"
)

const defaultAPIKeyHeader = "X-API-Key"

var _ lctools.Tool = (*Callable)(nil)

// Callable lets a model invoke a resolved tool. It satisfies the langchaingo
// tools.Tool interface plus a JSON schema for the call arguments.
type Callable struct {
	tool        Tool
	client      *http.Client
	maxResponse int64
}

// NewCallable wraps t. Responses larger than maxResponse bytes are truncated.
func NewCallable(t Tool, client *http.Client, maxResponse int64) *Callable {
	if client == nil {
		client = http.DefaultClient
	}
	return &Callable{
		tool:        t,
		client:      client,
		maxResponse: maxResponse,
	}
}

func (c *Callable) Name() string {
	return c.tool.Handle
}

func (c *Callable) Description() string {
	if c.tool.UsageNotes == "" {
		return c.tool.Description
	}
	return c.tool.Description + "\n\n" + c.tool.UsageNotes
}

// Parameters returns capabilities.parameters when the manifest declares one,
// otherwise a schema accepting a single free-text input.
func (c *Callable) Parameters() map[string]any {
	if p, ok := c.tool.Capabilities["parameters"].(map[string]any); ok {
		return p
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"input": map[string]any{
				"type":        "string",
				"description": "Request for " + c.tool.Handle,
			},
		},
		"required": []string{"input"},
	}
}

// Call POSTs the model's JSON arguments to the tool's api_url and returns the body.
func (c *Callable) Call(ctx context.Context, input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		input = "{}"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tool.APIURL, strings.NewReader(input))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if err := c.authorize(req); err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call %s: %w", c.tool.Handle, err)
	}
	defer resp.Body.Close()

	var body bytes.Buffer
	if _, err := io.Copy(&body, io.LimitReader(resp.Body, c.maxResponse)); err != nil {
		return "", fmt.Errorf("read %s response: %w", c.tool.Handle, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%s returned status %d: %s", c.tool.Handle, resp.StatusCode, strings.TrimSpace(body.String()))
	}

	return body.String(), nil
}

func (c *Callable) authorize(req *http.Request) error {
	info, err := decode.FromMap[AuthInfo](c.tool.AuthInfo)
	if err != nil {
		return fmt.Errorf("decode auth_info: %w", err)
	}

	switch c.tool.AuthMethod {
	case "", AuthNone:
	case AuthBearer:
		if info.Token == "" {
			return fmt.Errorf("%s: bearer auth without token", c.tool.Handle)
		}
		req.Header.Set("Authorization", "Bearer "+info.Token)
	case AuthAPIKey:
		if info.Key == "" {
			return fmt.Errorf("%s: api_key auth without key", c.tool.Handle)
		}
		header := info.Header
		if header == "" {
			header = defaultAPIKeyHeader
		}
		req.Header.Set(header, info.Key)
	default:
		return fmt.Errorf("%s: unsupported auth method %q", c.tool.Handle, c.tool.AuthMethod)
	}
	return nil
}
