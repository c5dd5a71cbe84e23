package api

import (
	"tracklint/internal/chat"
	"tracklint/internal/datasets"
	"tracklint/internal/rules"
	"tracklint/internal/validation"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Datasets   datasets.System
	Rules      rules.System
	Validation validation.System
	Chat       chat.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	datasetsSystem := datasets.New(
		runtime.Datastore.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	rulesSystem := rules.New(runtime.Logger)

	validationSystem := validation.New(
		runtime.Lifecycle.Context(),
		rulesSystem,
		datasetsSystem,
		runtime.Reasoner,
		runtime.Logger,
		runtime.Validation.BatchSize,
		runtime.Validation.MaxInFlight,
		runtime.Validation.PlatformField,
	)

	chatSystem := chat.New(
		runtime.Datastore.Connection(),
		datasetsSystem,
		runtime.Reasoner,
		runtime.Logger,
	)

	return &Domain{
		Datasets:   datasetsSystem,
		Rules:      rulesSystem,
		Validation: validationSystem,
		Chat:       chatSystem,
	}
}
