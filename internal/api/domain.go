package api

import (
	"github.com/JaimeStill/agent-instances/internal/agents"
	"github.com/JaimeStill/agent-instances/internal/completions"
	"github.com/JaimeStill/agent-instances/internal/config"
	"github.com/JaimeStill/agent-instances/internal/instances"
	"github.com/JaimeStill/agent-instances/internal/models"
	"github.com/JaimeStill/agent-instances/internal/providers"
	"github.com/JaimeStill/agent-instances/internal/tools"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Providers providers.System
	Models    models.System
	Agents    agents.System
	Tools     tools.System
	Instances instances.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime, cfg *config.Config) *Domain {
	db := runtime.Database.Connection()

	providersSys := providers.New(db, runtime.Logger, runtime.Pagination)
	modelsSys := models.New(db, runtime.Logger, runtime.Pagination)
	agentsSys := agents.New(db, runtime.Logger, runtime.Pagination)
	toolsSys := tools.New(db, runtime.Verifier, runtime.Logger, runtime.Pagination)

	maxResponse := cfg.Completions.MaxResponseSizeBytes()

	instancesSys := instances.New(
		instances.NewStore(db),
		instances.Systems{
			Agents:    agentsSys,
			Models:    modelsSys,
			Providers: providersSys,
			Tools:     toolsSys,
			Completer: completions.New(&cfg.Completions, runtime.Logger),
			Callable: func(t tools.Tool) completions.Tool {
				return tools.NewCallable(t, runtime.ToolClient, maxResponse)
			},
		},
		cfg.Instances,
		runtime.Logger,
	)

	return &Domain{
		Providers: providersSys,
		Models:    modelsSys,
		Agents:    agentsSys,
		Tools:     toolsSys,
		Instances: instancesSys,
	}
}
