package download

import (
	"errors"
	"log/slog"
	"net/http"

	"MediaResolver/internal/api/handlers"
	"MediaResolver/internal/core/proxy"
	"MediaResolver/internal/core/signer"

	"github.com/go-chi/chi/v5"
)

// DownloadHandler streams a previously signed asset to the client
type DownloadHandler struct {
	signer *signer.Signer
	proxy  *proxy.Proxy
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(s *signer.Signer, p *proxy.Proxy) *DownloadHandler {
	return &DownloadHandler{
		signer: s,
		proxy:  p,
	}
}

// HandleDownload verifies a single-use token and proxies the asset
// GET /download/{token}
//
// Verification consumes the token: a second request with the same token
// is rejected even before expiry.
func (h *DownloadHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		handlers.WriteError(w, http.StatusBadRequest, "token is required")
		return
	}

	assetURL, metadata, err := h.signer.Verify(token)
	if err != nil {
		// One generic message for every verification failure so the
		// response does not reveal whether a token was expired,
		// replayed or forged.
		handlers.WriteError(w, http.StatusForbidden, "Invalid or expired download link")
		return
	}

	if err := h.proxy.ServeDownload(w, r, assetURL, metadata); err != nil {
		switch {
		case errors.Is(err, proxy.ErrOriginStatus), errors.Is(err, proxy.ErrOriginFetch):
			handlers.WriteError(w, http.StatusBadGateway, "Upstream media source is unavailable")
		default:
			slog.Error("[DOWNLOAD] proxy error", "error", err)
			handlers.WriteError(w, http.StatusInternalServerError, "Download failed")
		}
	}
}
