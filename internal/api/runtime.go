package api

import (
	"tracklint/internal/config"
	"tracklint/internal/infrastructure"
	"tracklint/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Validation config.ValidationConfig
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Datastore: infra.Datastore,
			Reasoner:  infra.Reasoner,
		},
		Pagination: cfg.API.Pagination,
		Validation: cfg.Validation,
	}
}
