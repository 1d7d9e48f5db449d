// Package api assembles the domain systems into the HTTP module served under
// the configured base path.
package api

import (
	"net/http"

	"github.com/JaimeStill/agent-instances/internal/config"
	"github.com/JaimeStill/agent-instances/internal/infrastructure"
	"github.com/JaimeStill/agent-instances/pkg/middleware"
	"github.com/JaimeStill/agent-instances/pkg/module"
	"github.com/JaimeStill/agent-instances/pkg/openapi"
)

// NewModule builds the API module and its OpenAPI document.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime, cfg)

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	cfg.API.OpenAPI.Apply(spec)
	spec.AddServer(cfg.Domain)

	mux := http.NewServeMux()
	registerRoutes(mux, spec, runtime, domain, cfg)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.TrimSlash())
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.MaxBody(cfg.API.MaxBodySizeBytes()))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
