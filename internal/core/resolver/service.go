// Package resolver orchestrates media resolution: the extraction backend
// first, the generic page-scan fallback second, and always the canonical
// normalization and quality selection on whatever succeeded.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"MediaResolver/internal/core/media"
)

const (
	fullDescriptionLimit = 500
	infoDescriptionLimit = 200
)

// formatSelectors maps caller format preferences onto backend-native
// selection strings.
var formatSelectors = map[string]string{
	"mp4":   "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best",
	"mp3":   "bestaudio[ext=m4a]/bestaudio/best",
	"best":  "best",
	"worst": "worst",
}

// supportedSites is informational: sites the service is known to handle
// well. The backend itself is not limited to this list.
var supportedSites = []string{
	"youtube.com", "youtu.be",
	"instagram.com", "twitter.com", "x.com",
	"facebook.com", "fb.watch",
	"tiktok.com",
	"vimeo.com", "dailymotion.com",
	"reddit.com", "twitch.tv",
	"soundcloud.com", "bandcamp.com",
	"pinterest.com", "tumblr.com",
}

// InfoResult is the lightweight /info payload. On backend failure it
// degrades to the URL, its domain and the failure reason instead of
// erroring out.
type InfoResult struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title,omitempty"`
	Duration    int      `json:"duration,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Uploader    string   `json:"uploader,omitempty"`
	Extractor   string   `json:"extractor,omitempty"`
	WebpageURL  string   `json:"webpage_url,omitempty"`
	IsLive      bool     `json:"is_live,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description,omitempty"`

	URL       string `json:"url,omitempty"`
	Domain    string `json:"domain,omitempty"`
	Available *bool  `json:"available,omitempty"`
	Error     string `json:"error,omitempty"`
}

type service struct {
	backend  Backend
	fallback PageExtractor
	breaker  *circuitBreaker
}

// NewService creates the resolution orchestrator.
func NewService(backend Backend, fallback PageExtractor) Service {
	return &service{
		backend:  backend,
		fallback: fallback,
		breaker:  newCircuitBreaker(),
	}
}

// Resolve turns a page URL into a canonical descriptor. The backend is
// tried first; on any backend failure or empty result the generic
// fallback runs against the same URL. When both fail the error wraps the
// backend's original cause. There is no partial success: a descriptor
// comes back whole or not at all.
func (s *service) Resolve(ctx context.Context, pageURL, formatPref, qualityPref string) (*media.Descriptor, error) {
	if err := validateURL(pageURL); err != nil {
		return nil, err
	}

	desc, backendErr := s.resolveViaBackend(ctx, pageURL, formatPref)
	if backendErr == nil {
		return finishDescriptor(desc, qualityPref), nil
	}

	slog.Info("[RESOLVER] backend extraction failed, trying generic fallback",
		"url", pageURL,
		"error", backendErr,
	)

	desc, fallbackErr := s.fallback.ExtractFromPage(ctx, pageURL)
	if fallbackErr != nil {
		return nil, fmt.Errorf("%w: %v (fallback: %v)", ErrResolutionFailed, backendErr, fallbackErr)
	}
	return finishDescriptor(desc, qualityPref), nil
}

func (s *service) resolveViaBackend(ctx context.Context, pageURL, formatPref string) (*media.Descriptor, error) {
	domain := extractDomain(pageURL)
	if ok, err := s.breaker.canAttempt(domain); !ok {
		return nil, err
	}

	info, err := s.backend.Extract(ctx, pageURL, formatSelectors[strings.ToLower(formatPref)])
	if err != nil {
		s.breaker.recordFailure(domain, err)
		return nil, err
	}
	if info == nil {
		s.breaker.recordFailure(domain, fmt.Errorf("backend returned no data"))
		return nil, fmt.Errorf("backend returned no data")
	}
	s.breaker.recordSuccess(domain)

	formats := media.Normalize(backendRaw(info.Formats))
	if len(formats) == 0 && info.URL != "" {
		formats = []media.Format{media.DirectFormat(info.URL, info.Ext)}
	}

	webpageURL := info.WebpageURL
	if webpageURL == "" {
		webpageURL = pageURL
	}
	extractor := info.Extractor
	if extractor == "" {
		extractor = "generic"
	}

	return &media.Descriptor{
		ID:          info.ID,
		Title:       titleOrUnknown(info.Title),
		Duration:    info.Duration,
		Thumbnail:   info.Thumbnail,
		Uploader:    info.Uploader,
		Description: info.Description,
		Extractor:   extractor,
		WebpageURL:  webpageURL,
		Formats:     formats,
	}, nil
}

// Info fetches lightweight metadata without minting download links. A
// backend failure degrades to a minimal payload rather than an error so
// callers can still show the domain and the reason.
func (s *service) Info(ctx context.Context, pageURL string) (*InfoResult, error) {
	if err := validateURL(pageURL); err != nil {
		return nil, err
	}

	info, err := s.backend.Extract(ctx, pageURL, "")
	if err != nil || info == nil {
		if err == nil {
			err = fmt.Errorf("backend returned no data")
		}
		unavailable := false
		return &InfoResult{
			URL:       pageURL,
			Domain:    extractDomain(pageURL),
			Available: &unavailable,
			Error:     err.Error(),
		}, nil
	}

	webpageURL := info.WebpageURL
	if webpageURL == "" {
		webpageURL = pageURL
	}

	return &InfoResult{
		ID:          info.ID,
		Title:       info.Title,
		Duration:    info.Duration,
		Thumbnail:   info.Thumbnail,
		Uploader:    info.Uploader,
		Extractor:   info.Extractor,
		WebpageURL:  webpageURL,
		IsLive:      info.IsLive,
		Categories:  info.Categories,
		Tags:        info.Tags,
		Description: truncate(info.Description, infoDescriptionLimit),
	}, nil
}

func (s *service) SupportedSites() []string {
	return supportedSites
}

// finishDescriptor applies the quality preference and the description
// bound to a descriptor from either extraction path.
func finishDescriptor(desc *media.Descriptor, qualityPref string) *media.Descriptor {
	if qualityPref != "" {
		desc.Formats = media.SelectQuality(desc.Formats, qualityPref)
	}
	desc.Description = truncate(desc.Description, fullDescriptionLimit)
	return desc
}

func backendRaw(formats []media.BackendFormat) []media.RawFormat {
	raw := make([]media.RawFormat, len(formats))
	for i, f := range formats {
		raw[i] = f
	}
	return raw
}

func validateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if (scheme != "http" && scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	return nil
}

func extractDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
}

func titleOrUnknown(title string) string {
	if title == "" {
		return "Unknown"
	}
	return title
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
