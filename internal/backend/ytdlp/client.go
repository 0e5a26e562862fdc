// Package ytdlp adapts the yt-dlp command-line extractor to the
// resolver.Backend interface. The extractor itself is an external
// collaborator: this package only shells out, parses its JSON dump, and
// hands the raw records to the orchestrator untouched.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"MediaResolver/internal/core/media"
	"MediaResolver/internal/core/resolver"
)

var (
	// ErrBinaryNotFound is returned when the yt-dlp executable is not
	// on PATH.
	ErrBinaryNotFound = errors.New("yt-dlp binary not found")

	// ErrExtraction is returned when yt-dlp exits non-zero or emits
	// unparseable output.
	ErrExtraction = errors.New("yt-dlp extraction failed")
)

// Client invokes the yt-dlp binary for metadata extraction.
type Client struct {
	binary  string
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBinary overrides the executable name or path.
func WithBinary(path string) Option {
	return func(c *Client) {
		c.binary = path
	}
}

// WithTimeout bounds a single extraction run.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// New creates a yt-dlp backend client.
func New(opts ...Option) *Client {
	c := &Client{
		binary:  "yt-dlp",
		timeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// dump mirrors the yt-dlp -J output fields the resolver cares about.
// Playlists arrive as an entries list; the first entry stands in for the
// whole, matching the original service's behavior.
type dump struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Duration    float64               `json:"duration"`
	Thumbnail   string                `json:"thumbnail"`
	Uploader    string                `json:"uploader"`
	UploadDate  string                `json:"upload_date"`
	ViewCount   int64                 `json:"view_count"`
	Description string                `json:"description"`
	Extractor   string                `json:"extractor"`
	WebpageURL  string                `json:"webpage_url"`
	IsLive      bool                  `json:"is_live"`
	Categories  []string              `json:"categories"`
	Tags        []string              `json:"tags"`
	Formats     []media.BackendFormat `json:"formats"`
	Entries     []dump                `json:"entries"`
	URL         string                `json:"url"`
	Ext         string                `json:"ext"`
}

// Extract runs yt-dlp -J against the URL and returns the raw result.
func (c *Client) Extract(ctx context.Context, url, selector string) (*resolver.BackendInfo, error) {
	binary, err := exec.LookPath(c.binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBinaryNotFound, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := []string{"--dump-single-json", "--no-warnings", "--quiet", "--no-download"}
	if selector != "" {
		args = append(args, "--format", selector)
	}
	args = append(args, "--", url)

	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%w: %s", ErrExtraction, msg)
	}

	info, err := parseDump(stdout.Bytes())
	if err != nil {
		return nil, err
	}
	if info.WebpageURL == "" {
		info.WebpageURL = url
	}
	return info, nil
}

// parseDump decodes a -J dump into a BackendInfo, unwrapping playlist
// entries.
func parseDump(data []byte) (*resolver.BackendInfo, error) {
	var d dump
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: parsing output: %v", ErrExtraction, err)
	}

	if len(d.Formats) == 0 && len(d.Entries) > 0 {
		entry := d.Entries[0]
		entry.WebpageURL = firstNonEmpty(entry.WebpageURL, d.WebpageURL)
		d = entry
	}

	return &resolver.BackendInfo{
		ID:          d.ID,
		Title:       d.Title,
		Duration:    int(d.Duration),
		Thumbnail:   d.Thumbnail,
		Uploader:    d.Uploader,
		UploadDate:  d.UploadDate,
		ViewCount:   d.ViewCount,
		Description: d.Description,
		Extractor:   d.Extractor,
		WebpageURL:  d.WebpageURL,
		IsLive:      d.IsLive,
		Categories:  d.Categories,
		Tags:        d.Tags,
		Formats:     d.Formats,
		URL:         d.URL,
		Ext:         d.Ext,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
