package resolve

import (
	"errors"
	"log/slog"
	"net/http"

	"MediaResolver/internal/api/handlers"
	"MediaResolver/internal/core/resolver"
)

// handleServiceError converts resolver errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, resolver.ErrInvalidURL):
		handlers.WriteError(w, http.StatusBadRequest, "URL must start with http:// or https://")
	case errors.Is(err, resolver.ErrResolutionFailed):
		// Unlike token errors, resolution failures carry their cause to
		// the client: the caller needs to know why their URL failed.
		handlers.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("[RESOLVE] unexpected service error", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "An internal error occurred")
	}
}
