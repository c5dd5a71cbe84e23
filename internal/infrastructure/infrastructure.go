// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, datastore, reasoning client) that domain
// systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"tracklint/internal/config"
	"tracklint/pkg/datastore"
	"tracklint/pkg/lifecycle"
	"tracklint/pkg/reasoner"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, datastore access, and the reasoning client.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Datastore datastore.System
	Reasoner  reasoner.Client
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := datastore.New(&cfg.Datastore, logger)
	if err != nil {
		return nil, fmt.Errorf("datastore init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Datastore: db,
		Reasoner:  reasoner.New(&cfg.Reasoner),
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// The reasoning client is stateless and needs no hooks.
func (i *Infrastructure) Start() error {
	if err := i.Datastore.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("datastore start failed: %w", err)
	}
	return nil
}
