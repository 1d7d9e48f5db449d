package api

import (
	"net/http"

	"github.com/JaimeStill/agent-instances/internal/config"
	"github.com/JaimeStill/agent-instances/internal/infrastructure"
	"github.com/JaimeStill/agent-instances/pkg/auth"
	"github.com/JaimeStill/agent-instances/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Verifier   *auth.Verifier

	// ToolClient issues outbound tool calls made during a chat round.
	ToolClient *http.Client
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
		},
		Pagination: cfg.API.Pagination,
		Verifier:   auth.NewVerifier(&cfg.Auth),
		ToolClient: &http.Client{Timeout: cfg.Completions.TimeoutDuration()},
	}
}
