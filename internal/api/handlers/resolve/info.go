package resolve

import (
	"net/http"

	"MediaResolver/internal/api/handlers"
	"MediaResolver/internal/core/resolver"
)

// InfoHandler handles lightweight metadata lookups
type InfoHandler struct {
	service resolver.Service
}

// NewInfoHandler creates a new info handler
func NewInfoHandler(service resolver.Service) *InfoHandler {
	return &InfoHandler{service: service}
}

// HandleInfo returns metadata for a URL without preparing downloads
// GET /info?url=https://...
func (h *InfoHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	pageURL := r.URL.Query().Get("url")
	if pageURL == "" {
		handlers.WriteError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	res, err := h.service.Info(r.Context(), pageURL)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteData(w, http.StatusOK, res)
}
