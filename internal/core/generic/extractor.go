// Package generic implements the fallback extractor: a same-document HTML
// scan that turns any fetchable page into canonical media descriptors when
// the primary extraction backend fails or does not recognize the site.
package generic

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"MediaResolver/internal/core/media"
)

// ErrFetchFailed is returned when the page cannot be retrieved with a
// 2xx status.
var ErrFetchFailed = errors.New("page fetch failed")

// maxPageBytes caps how much HTML we will read from a page.
const maxPageBytes = 10 * 1024 * 1024

// ogMediaProperties are the meta properties scanned for direct media URLs.
var ogMediaProperties = []string{"og:video", "og:video:url", "og:audio", "og:audio:url"}

// Extractor fetches a page and scans its markup for media sources.
type Extractor struct {
	client    *http.Client
	userAgent string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTimeout sets the page fetch timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Extractor) {
		e.client.Timeout = timeout
	}
}

// WithUserAgent overrides the User-Agent sent on page fetches.
func WithUserAgent(ua string) Option {
	return func(e *Extractor) {
		e.userAgent = ua
	}
}

// New creates a fallback extractor with browser-like defaults.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		client:    &http.Client{Timeout: 15 * time.Second},
		userAgent: "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/121.0",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractFromPage fetches pageURL and emits a canonical descriptor built
// from <video>/<audio> sources and og: media meta tags. All matches are
// collected; relative asset URLs are resolved against the page URL.
func (e *Extractor) ExtractFromPage(ctx context.Context, pageURL string) (*media.Descriptor, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid page URL: %v", ErrFetchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing page: %v", ErrFetchFailed, err)
	}

	raw := scanFormats(doc, base)

	return &media.Descriptor{
		ID:         pageFingerprint(pageURL),
		Title:      pageTitle(doc, base),
		Duration:   0,
		Thumbnail:  pageThumbnail(doc, base),
		Extractor:  "generic",
		WebpageURL: pageURL,
		Formats:    media.Normalize(raw),
	}, nil
}

// scanFormats collects the union of media sources the markup declares.
func scanFormats(doc *goquery.Document, base *url.URL) []media.RawFormat {
	var raw []media.RawFormat

	doc.Find("video source").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || src == "" {
			return
		}
		abs := absolutize(base, src)
		res, _ := s.Attr("res")
		raw = append(raw, media.GenericFormat{
			FormatID:   "video",
			Ext:        extFromURL(abs),
			URL:        abs,
			Resolution: res,
		})
	})

	doc.Find("audio source").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || src == "" {
			return
		}
		abs := absolutize(base, src)
		raw = append(raw, media.GenericFormat{
			FormatID: "audio",
			Ext:      extFromURL(abs),
			URL:      abs,
		})
	})

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		prop, _ := s.Attr("property")
		content, _ := s.Attr("content")
		if content == "" || !isOGMediaProperty(prop) {
			return
		}
		abs := absolutize(base, content)
		raw = append(raw, media.GenericFormat{
			FormatID: "meta_" + strings.ReplaceAll(prop, ":", "_"),
			Ext:      extFromURL(abs),
			URL:      abs,
		})
	})

	return raw
}

func isOGMediaProperty(prop string) bool {
	for _, p := range ogMediaProperties {
		if prop == p {
			return true
		}
	}
	return false
}

// pageTitle resolves the display title: <title> text, then og:title, then
// the final segment of the URL path.
func pageTitle(doc *goquery.Document, base *url.URL) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok && og != "" {
		return og
	}
	return path.Base(base.Path)
}

// pageThumbnail resolves a preview image: og:image first, then the first
// <img> on the page, both made absolute. Empty when the page has neither.
func pageThumbnail(doc *goquery.Document, base *url.URL) string {
	if og, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok && og != "" {
		return absolutize(base, og)
	}
	if src, ok := doc.Find("img").First().Attr("src"); ok && src != "" {
		return absolutize(base, src)
	}
	return ""
}

// pageFingerprint is a fixed-width id for a page URL: deterministic for
// the same URL, not guaranteed collision-free.
func pageFingerprint(pageURL string) string {
	sum := sha256.Sum256([]byte(pageURL))
	return hex.EncodeToString(sum[:])[:8]
}

func absolutize(base *url.URL, ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}

func extFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(parsed.Path), "."))
	if ext == "" {
		return "unknown"
	}
	return ext
}
