// Package proxy relays asset bytes from an origin server to the client
// under spoofed browser headers, so origin-side referrer or user-agent
// restrictions never reach the end user. Nothing is persisted; bytes go
// straight through in fixed-size chunks.
package proxy

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrOriginFetch is returned when the origin request cannot be made.
	ErrOriginFetch = errors.New("origin fetch failed")

	// ErrOriginStatus is returned when the origin answers with a
	// non-success status. The request fails before any body bytes are
	// written, instead of silently streaming an empty file.
	ErrOriginStatus = errors.New("origin returned error status")
)

const (
	// chunkSize is the relay buffer: 1 MiB per copy.
	chunkSize = 1 << 20

	defaultFilename = "download"
	defaultExt      = "mp4"
	maxTitleLen     = 50
)

// Proxy streams origin assets to clients as file attachments.
type Proxy struct {
	client    *http.Client
	userAgent string
}

// Option configures a Proxy.
type Option func(*Proxy)

// WithTimeout bounds the whole origin transfer.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Proxy) {
		p.client.Timeout = timeout
	}
}

// WithUserAgent overrides the spoofed browser User-Agent.
func WithUserAgent(ua string) Option {
	return func(p *Proxy) {
		p.userAgent = ua
	}
}

// New creates a streaming proxy. The default timeout is generous because
// it covers the full body transfer, not just the first byte.
func New(opts ...Option) *Proxy {
	p := &Proxy{
		client:    &http.Client{Timeout: 10 * time.Minute},
		userAgent: "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/121.0",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ServeDownload fetches assetURL under spoofed headers and relays the
// body to w as an attachment named from the token metadata. The request
// context rides along on the origin fetch, so a client disconnect cancels
// the upstream read promptly.
func (p *Proxy) ServeDownload(w http.ResponseWriter, r *http.Request, assetURL string, metadata map[string]string) error {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, assetURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOriginFetch, err)
	}

	// Some origins reject requests without a plausible browser UA and a
	// same-site referrer; both are always sent.
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Referer", refererFor(assetURL))
	req.Header.Set("Accept", "*/*")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOriginFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrOriginStatus, resp.StatusCode)
	}

	filename := attachmentFilename(metadata)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", encodeFilename(filename)))
	// Forced octet-stream so browsers offer a save dialog instead of
	// inline playback, whatever the asset really is.
	w.Header().Set("Content-Type", "application/octet-stream")
	if resp.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(resp.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)

	buf := make([]byte, chunkSize)
	written, err := io.CopyBuffer(w, resp.Body, buf)
	if err != nil {
		// Headers are gone; all we can do is abort the stream so the
		// client sees a truncated transfer rather than a clean EOF.
		slog.Warn("[PROXY] stream aborted",
			"url", assetURL,
			"written", written,
			"error", err,
		)
		return nil
	}

	slog.Info("[PROXY] download complete",
		"filename", filename,
		"bytes", written,
	)
	return nil
}

// attachmentFilename builds the client-visible filename from token
// metadata: sanitized title plus extension, with defaults for both.
func attachmentFilename(metadata map[string]string) string {
	title := sanitizeTitle(metadata["title"])
	if title == "" {
		title = defaultFilename
	}
	ext := metadata["ext"]
	if ext == "" {
		ext = defaultExt
	}
	return title + "." + ext
}

// sanitizeTitle keeps only alphanumerics, spaces, hyphens and
// underscores, truncated to 50 characters.
func sanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
		if b.Len() >= maxTitleLen {
			break
		}
	}
	return strings.TrimSpace(b.String())
}

// encodeFilename percent-encodes for the RFC 5987 filename* parameter.
func encodeFilename(name string) string {
	return strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}

// refererFor derives a same-origin referrer for the asset URL.
func refererFor(assetURL string) string {
	parsed, err := url.Parse(assetURL)
	if err != nil || parsed.Host == "" {
		return assetURL
	}
	return parsed.Scheme + "://" + parsed.Host + "/"
}
