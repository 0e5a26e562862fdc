package resolve

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"MediaResolver/internal/api/handlers"
	"MediaResolver/internal/core/media"
	"MediaResolver/internal/core/resolver"
	"MediaResolver/internal/core/signer"
)

// ResolveHandler handles media resolution requests
type ResolveHandler struct {
	service resolver.Service
	signer  *signer.Signer
}

// NewResolveHandler creates a new resolve handler
func NewResolveHandler(service resolver.Service, s *signer.Signer) *ResolveHandler {
	return &ResolveHandler{
		service: service,
		signer:  s,
	}
}

// ResolveRequest is the request body for POST /resolve
type ResolveRequest struct {
	URL     string `json:"url"`
	Format  string `json:"format,omitempty"`
	Quality string `json:"quality,omitempty"`
}

// signedFormat is a resolved format augmented with a download token
type signedFormat struct {
	media.Format
	DownloadToken string `json:"download_token"`
	DownloadURL   string `json:"download_url"`
}

type resolveData struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Duration    int            `json:"duration,omitempty"`
	Thumbnail   string         `json:"thumbnail,omitempty"`
	Uploader    string         `json:"uploader,omitempty"`
	Description string         `json:"description,omitempty"`
	Extractor   string         `json:"extractor,omitempty"`
	WebpageURL  string         `json:"webpage_url,omitempty"`
	Formats     []signedFormat `json:"formats"`
	ResolvedAt  string         `json:"resolved_at"`
}

// HandleResolve resolves a page URL into downloadable formats
// POST /resolve
//
// Request body: { "url": "https://...", "format": "mp4", "quality": "720" }
func (h *ResolveHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handlers.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	// Query parameters back-fill anything the body left empty.
	q := r.URL.Query()
	if req.URL == "" {
		req.URL = q.Get("url")
	}
	if req.Format == "" {
		req.Format = q.Get("format")
	}
	if req.Quality == "" {
		req.Quality = q.Get("quality")
	}

	if req.URL == "" {
		handlers.WriteError(w, http.StatusBadRequest, "url is required")
		return
	}

	desc, err := h.service.Resolve(r.Context(), req.URL, req.Format, req.Quality)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	data := resolveData{
		ID:          desc.ID,
		Title:       desc.Title,
		Duration:    desc.Duration,
		Thumbnail:   desc.Thumbnail,
		Uploader:    desc.Uploader,
		Description: desc.Description,
		Extractor:   desc.Extractor,
		WebpageURL:  desc.WebpageURL,
		Formats:     make([]signedFormat, 0, len(desc.Formats)),
		ResolvedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	// Token metadata stays small: the title travels capped so the JWT
	// never balloons on long video titles.
	title := desc.Title
	if runes := []rune(title); len(runes) > 50 {
		title = string(runes[:50])
	}

	for _, f := range desc.Formats {
		token, err := h.signer.Sign(f.URL, map[string]string{
			"title":     title,
			"format_id": f.FormatID,
			"ext":       f.Ext,
		})
		if err != nil {
			slog.Error("[RESOLVE] failed to sign download token", "error", err)
			handlers.WriteError(w, http.StatusInternalServerError, "Failed to prepare download links")
			return
		}
		data.Formats = append(data.Formats, signedFormat{
			Format:        f,
			DownloadToken: token,
			DownloadURL:   "/download/" + token,
		})
	}

	handlers.WriteData(w, http.StatusOK, data)
}
