package api

import (
	"net/http"

	"github.com/JaimeStill/agent-instances/internal/agents"
	"github.com/JaimeStill/agent-instances/internal/config"
	"github.com/JaimeStill/agent-instances/internal/instances"
	"github.com/JaimeStill/agent-instances/internal/models"
	"github.com/JaimeStill/agent-instances/internal/providers"
	"github.com/JaimeStill/agent-instances/internal/tools"
	"github.com/JaimeStill/agent-instances/pkg/openapi"
	"github.com/JaimeStill/agent-instances/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	spec *openapi.Spec,
	runtime *Runtime,
	domain *Domain,
	cfg *config.Config,
) {
	providersHandler := providers.NewHandler(domain.Providers, runtime.Logger, runtime.Pagination)
	modelsHandler := models.NewHandler(domain.Models, runtime.Logger, runtime.Pagination)
	agentsHandler := agents.NewHandler(domain.Agents, runtime.Logger, runtime.Pagination)
	toolsHandler := tools.NewHandler(domain.Tools, runtime.Logger, runtime.Pagination)
	instancesHandler := instances.NewHandler(domain.Instances, runtime.Verifier, runtime.Logger)

	routes.Register(
		mux,
		cfg.API.BasePath,
		spec,
		providersHandler.Routes(),
		modelsHandler.Routes(),
		agentsHandler.Routes(),
		toolsHandler.Routes(),
		instancesHandler.Routes(),
	)

	spec.Components.AddSchemas(providers.Spec.Schemas())
	spec.Components.AddSchemas(models.Spec.Schemas())
	spec.Components.AddSchemas(agents.Spec.Schemas())
	spec.Components.AddSchemas(tools.Spec.Schemas())
	spec.Components.AddSchemas(instances.Spec.Schemas())
}
