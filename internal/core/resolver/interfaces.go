package resolver

import (
	"context"

	"MediaResolver/internal/core/media"
)

// BackendInfo is the raw result of a backend extraction: untranslated
// metadata plus the raw format records. Only the orchestrator consumes
// it, and only the media package turns its formats canonical.
type BackendInfo struct {
	ID          string
	Title       string
	Duration    int
	Thumbnail   string
	Uploader    string
	UploadDate  string
	ViewCount   int64
	Description string
	Extractor   string
	WebpageURL  string
	IsLive      bool
	Categories  []string
	Tags        []string
	Formats     []media.BackendFormat

	// URL and Ext describe a bare direct asset for extractions that
	// yield no structured format list.
	URL string
	Ext string
}

// Backend is the external per-site extraction component. It understands
// site-specific page structures for 1000+ sites and is consumed as a
// black box: raw records out, or an error.
type Backend interface {
	// Extract resolves a page URL into raw media info. selector is a
	// backend-native format selection string ("best", "bestaudio/...").
	Extract(ctx context.Context, url, selector string) (*BackendInfo, error)
}

// PageExtractor is the generic same-document fallback used when the
// backend fails or returns nothing.
type PageExtractor interface {
	ExtractFromPage(ctx context.Context, url string) (*media.Descriptor, error)
}

// Service resolves media-hosting page URLs into canonical descriptors.
type Service interface {
	Resolve(ctx context.Context, url, formatPref, qualityPref string) (*media.Descriptor, error)
	Info(ctx context.Context, url string) (*InfoResult, error)
	SupportedSites() []string
}
