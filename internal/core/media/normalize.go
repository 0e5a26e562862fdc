package media

import (
	"fmt"
	"strconv"
	"strings"
)

// Normalize converts raw extraction records into canonical formats.
// It is a pure transform: no I/O, no failure path. Records lacking an
// asset URL are dropped; every other field is optional and missing values
// simply stay at their zero value (and are omitted from JSON).
func Normalize(raw []RawFormat) []Format {
	formats := make([]Format, 0, len(raw))

	for _, r := range raw {
		switch f := r.(type) {
		case BackendFormat:
			if f.URL == "" {
				continue
			}
			formats = append(formats, Format{
				FormatID:   f.FormatID,
				Ext:        f.Ext,
				URL:        f.URL,
				Filesize:   f.Filesize,
				Quality:    qualityLabel(f),
				Resolution: f.Resolution,
				Height:     f.Height,
				FPS:        f.FPS,
				VCodec:     f.VCodec,
				ACodec:     f.ACodec,
				FormatNote: f.FormatNote,
			})
		case GenericFormat:
			if f.URL == "" {
				continue
			}
			formats = append(formats, Format{
				FormatID:   f.FormatID,
				Ext:        f.Ext,
				URL:        f.URL,
				Quality:    "unknown",
				Resolution: f.Resolution,
				Height:     parseHeight(f.Resolution),
			})
		}
	}

	return formats
}

// DirectFormat synthesizes the single canonical format used when the
// backend yields zero structured formats but a bare direct URL.
func DirectFormat(url, ext string) Format {
	if ext == "" {
		ext = "mp4"
	}
	return Format{
		FormatID:   "direct",
		Ext:        ext,
		URL:        url,
		Quality:    "best",
		Resolution: "unknown",
	}
}

// qualityLabel derives a human-readable quality string for a backend
// record: vertical resolution first, then bitrate, then the backend's own
// note, then the literal "unknown".
func qualityLabel(f BackendFormat) string {
	switch {
	case f.Height > 0:
		return fmt.Sprintf("%dp", f.Height)
	case f.TBR > 0:
		return fmt.Sprintf("%.0fk", f.TBR)
	case f.FormatNote != "":
		return f.FormatNote
	default:
		return "unknown"
	}
}

// parseHeight extracts a vertical resolution from declared resolution
// attributes like "720", "720p" or "1280x720". Returns 0 when the value
// carries no usable height.
func parseHeight(res string) int {
	res = strings.TrimSpace(strings.ToLower(res))
	if res == "" {
		return 0
	}
	if i := strings.LastIndex(res, "x"); i >= 0 {
		res = res[i+1:]
	}
	res = strings.TrimSuffix(res, "p")
	h, err := strconv.Atoi(res)
	if err != nil || h <= 0 {
		return 0
	}
	return h
}
