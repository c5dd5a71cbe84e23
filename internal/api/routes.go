package api

import (
	"net/http"

	"tracklint/internal/config"
	"tracklint/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, cfg *config.Config) {
	maxUpload := cfg.API.MaxUploadSizeBytes()

	routes.Register(
		mux,
		domain.Datasets.Handler(maxUpload).Routes(),
		domain.Rules.Handler(maxUpload).Routes(),
		domain.Validation.Handler().Routes(),
		domain.Chat.Handler().Routes(),
	)
}
