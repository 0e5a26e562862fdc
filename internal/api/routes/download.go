package routes

import (
	"MediaResolver/internal/api/handlers/download"
	"MediaResolver/internal/core/proxy"
	"MediaResolver/internal/core/signer"

	"github.com/go-chi/chi/v5"
)

// RegisterDownloadRoutes registers the token-gated streaming endpoint
func RegisterDownloadRoutes(r chi.Router, s *signer.Signer, p *proxy.Proxy) {
	downloadHandler := download.NewDownloadHandler(s, p)

	// GET /download/{token}
	// No rate limit here: tokens are single-use, so replay is already bounded
	r.Get("/download/{token}", downloadHandler.HandleDownload)
}
