package meta

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"MediaResolver/internal/api/handlers"
	"MediaResolver/internal/core/resolver"
)

// Version is the service version reported by /health and /
const Version = "1.0.0"

// MetaHandler serves the health, supported-sites and root endpoints
type MetaHandler struct {
	service   resolver.Service
	startedAt time.Time
}

// NewMetaHandler creates a new meta handler
func NewMetaHandler(service resolver.Service) *MetaHandler {
	return &MetaHandler{
		service:   service,
		startedAt: time.Now().UTC(),
	}
}

// HandleHealth reports liveness
// GET /health
func (h *MetaHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":         "healthy",
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
		"version":        Version,
	})
}

// HandleSupported lists sites with first-class backend support
// GET /supported
func (h *MetaHandler) HandleSupported(w http.ResponseWriter, r *http.Request) {
	sites := h.service.SupportedSites()
	handlers.WriteData(w, http.StatusOK, map[string]interface{}{
		"sites": sites,
		"count": len(sites),
	})
}

// HandleRoot describes the service and its endpoints
// GET /
func (h *MetaHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"service": "media-resolver",
		"version": Version,
		"endpoints": map[string]string{
			"resolve":   "POST /resolve",
			"info":      "GET /info?url=...",
			"download":  "GET /download/{token}",
			"supported": "GET /supported",
			"health":    "GET /health",
		},
	})
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("[META] failed to encode response", "error", err)
	}
}
