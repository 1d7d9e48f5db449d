// Package infrastructure provides core service initialization for application startup.
// It assembles the common dependencies (logging, database) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/agent-instances/internal/config"
	"github.com/JaimeStill/agent-instances/internal/migrations"
	"github.com/JaimeStill/agent-instances/pkg/database"
	"github.com/JaimeStill/agent-instances/pkg/lifecycle"
	"github.com/JaimeStill/agent-instances/pkg/logging"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System

	migrate bool
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := logging.New(&cfg.Logging)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		migrate:   cfg.Database.Migrate,
	}, nil
}

// Start connects the database and, when enabled, applies pending migrations.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if i.migrate {
		if err := database.Migrate(i.Database.Connection(), migrations.FS, migrations.Dir, i.Logger); err != nil {
			return fmt.Errorf("migrate failed: %w", err)
		}
	}
	return nil
}
