package routes

import (
	"MediaResolver/internal/api/handlers/meta"
	"MediaResolver/internal/core/resolver"

	"github.com/go-chi/chi/v5"
)

// RegisterMetaRoutes registers the service metadata endpoints
func RegisterMetaRoutes(r chi.Router, service resolver.Service) {
	metaHandler := meta.NewMetaHandler(service)

	r.Get("/", metaHandler.HandleRoot)
	r.Get("/health", metaHandler.HandleHealth)
	r.Get("/supported", metaHandler.HandleSupported)
}
