package instances

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/agent-instances/internal/agents"
	"github.com/JaimeStill/agent-instances/internal/tools"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const timestampLayout = "2006-01-02 15:04:05"

// buildPrompt appends the timestamp block and one block per tool, in order.
func buildPrompt(base string, now time.Time, resolved []tools.Tool) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\n")
	b.WriteString(now.Format(timestampLayout))
	b.WriteString("\n\n")

	for _, t := range resolved {
		b.WriteString("\n\n")
		b.WriteString(t.Handle)
		b.WriteString(": ")
		b.WriteString(t.Description)
		b.WriteString("\n\n")
	}
	return b.String()
}

// resolveTools returns a manifest for every reference, in reference order.
// Unresolved handles are looked up concurrently; the first failure cancels
// the rest and is returned.
func (m *manager) resolveTools(ctx context.Context, refs agents.ToolRefs, accessToken string, userID uuid.UUID) ([]tools.Tool, error) {
	resolved := make([]tools.Tool, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.ToolConcurrency)

	for i, ref := range refs {
		if ref.IsResolved() {
			resolved[i] = *ref.Tool
			continue
		}

		g.Go(func() error {
			t, err := m.systems.Tools.FindByHandle(gctx, accessToken, ref.Name, userID)
			if err != nil {
				return fmt.Errorf("resolve tool %q: %w", ref.Name, err)
			}
			resolved[i] = *t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}
