package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteData writes a standardized success envelope: {"success": true, "data": ...}
func WriteData(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    data,
	}); err != nil {
		slog.Error("[API] failed to encode response", "error", err)
	}
}

// WriteError writes a standardized error envelope: {"success": false, "error": ...}
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	}); err != nil {
		slog.Error("[API] failed to encode error response", "error", err)
	}
}
