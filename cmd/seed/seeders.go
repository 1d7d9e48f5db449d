package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/JaimeStill/agent-instances/internal/agents"
	"github.com/JaimeStill/agent-instances/internal/tools"
	"github.com/JaimeStill/agent-instances/pkg/repository"
	"github.com/google/uuid"
)

func init() {
	registerSeeder(providerSeeder{})
	registerSeeder(modelSeeder{})
	registerSeeder(toolSeeder{})
	registerSeeder(agentSeeder{})
}

type providerSeeder struct{}

func (providerSeeder) Name() string { return "providers" }
func (providerSeeder) Description() string {
	return "Seeds model providers; keys come from the named env vars"
}

func (providerSeeder) Seed(ctx context.Context, tx *sql.Tx, c *Catalog) error {
	const query = `
		INSERT INTO providers (name, api_url, api_key)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET
			api_url = EXCLUDED.api_url,
			api_key = CASE WHEN EXCLUDED.api_key = '' THEN providers.api_key ELSE EXCLUDED.api_key END,
			updated_at = NOW()`

	for _, p := range c.Providers {
		var key string
		if p.APIKeyEnv != "" {
			key = os.Getenv(p.APIKeyEnv)
		}
		if _, err := tx.ExecContext(ctx, query, p.Name, p.APIURL, key); err != nil {
			return fmt.Errorf("provider %s: %w", p.Name, err)
		}
	}
	return nil
}

type modelSeeder struct{}

func (modelSeeder) Name() string        { return "models" }
func (modelSeeder) Description() string { return "Seeds models under their named providers" }

func (modelSeeder) Seed(ctx context.Context, tx *sql.Tx, c *Catalog) error {
	const query = `
		INSERT INTO models (name, provider_id, params)
		VALUES ($1, $2, $3)
		ON CONFLICT (name, provider_id) DO UPDATE SET
			params = EXCLUDED.params,
			updated_at = NOW()`

	for _, m := range c.Models {
		providerID, err := providerID(ctx, tx, m.Provider)
		if err != nil {
			return fmt.Errorf("model %s: %w", m.Name, err)
		}

		params := m.Params
		if params == nil {
			params = repository.JSONMap{}
		}
		if _, err := tx.ExecContext(ctx, query, m.Name, providerID, params); err != nil {
			return fmt.Errorf("model %s: %w", m.Name, err)
		}
	}
	return nil
}

type toolSeeder struct{}

func (toolSeeder) Name() string        { return "tools" }
func (toolSeeder) Description() string { return "Seeds shared MCP tool manifests" }

func (toolSeeder) Seed(ctx context.Context, tx *sql.Tx, c *Catalog) error {
	const query = `
		INSERT INTO mcp_tools (
			display_name, handle, description, logo_url, public,
			api_type, api_url, auth_method, auth_info, capabilities, health_status, usage_notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (handle, user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			description = EXCLUDED.description,
			logo_url = EXCLUDED.logo_url,
			public = EXCLUDED.public,
			api_url = EXCLUDED.api_url,
			auth_method = EXCLUDED.auth_method,
			auth_info = EXCLUDED.auth_info,
			usage_notes = EXCLUDED.usage_notes,
			updated_at = NOW()`

	for _, s := range c.Tools {
		t := tools.Command{
			DisplayName: s.DisplayName,
			Handle:      s.Handle,
			Description: s.Description,
			LogoURL:     s.LogoURL,
			Public:      s.Public,
			APIURL:      s.APIURL,
			AuthMethod:  s.AuthMethod,
			AuthInfo:    s.AuthInfo,
			UsageNotes:  s.UsageNotes,
		}.Tool()

		if err := tools.Validate(&t); err != nil {
			return fmt.Errorf("tool %s: %w", s.Handle, err)
		}

		_, err := tx.ExecContext(ctx, query,
			t.DisplayName, t.Handle, t.Description, t.LogoURL, t.Public,
			t.APIType, t.APIURL, t.AuthMethod, t.AuthInfo, t.Capabilities, t.HealthStatus, t.UsageNotes,
		)
		if err != nil {
			return fmt.Errorf("tool %s: %w", s.Handle, err)
		}
	}
	return nil
}

type agentSeeder struct{}

func (agentSeeder) Name() string { return "agents" }
func (agentSeeder) Description() string {
	return "Seeds shared agents bound to a model and tool handles"
}

// Seed matches existing shared agents by (name, model) since agents carry no
// natural unique key.
func (agentSeeder) Seed(ctx context.Context, tx *sql.Tx, c *Catalog) error {
	const (
		find = `SELECT id FROM agents WHERE name = $1 AND model_id = $2 AND user_id IS NULL`

		update = `
			UPDATE agents SET description = $2, prompt = $3, tools = $4, public = $5, updated_at = NOW()
			WHERE id = $1`

		insert = `
			INSERT INTO agents (name, description, model_id, prompt, tools, public)
			VALUES ($1, $2, $3, $4, $5, $6)`
	)

	for _, a := range c.Agents {
		modelID, err := modelID(ctx, tx, a.Model, a.Provider)
		if err != nil {
			return fmt.Errorf("agent %s: %w", a.Name, err)
		}

		refs := make(agents.ToolRefs, 0, len(a.Tools))
		for _, handle := range a.Tools {
			refs = append(refs, agents.Unresolved(handle))
		}

		var id uuid.UUID
		err = tx.QueryRowContext(ctx, find, a.Name, modelID).Scan(&id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			_, err = tx.ExecContext(ctx, insert, a.Name, a.Description, modelID, a.Prompt, refs, a.Public)
		case err == nil:
			_, err = tx.ExecContext(ctx, update, id, a.Description, a.Prompt, refs, a.Public)
		}
		if err != nil {
			return fmt.Errorf("agent %s: %w", a.Name, err)
		}
	}
	return nil
}

func providerID(ctx context.Context, tx *sql.Tx, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRowContext(ctx, `SELECT id FROM providers WHERE name = $1`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("unknown provider %q", name)
	}
	return id, err
}

func modelID(ctx context.Context, tx *sql.Tx, name, provider string) (uuid.UUID, error) {
	const query = `
		SELECT m.id FROM models m
		JOIN providers p ON p.id = m.provider_id
		WHERE m.name = $1 AND p.name = $2`

	var id uuid.UUID
	err := tx.QueryRowContext(ctx, query, name, provider).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("unknown model %q for provider %q", name, provider)
	}
	return id, err
}
