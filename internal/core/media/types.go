package media

// Descriptor represents one resolved media item in the canonical schema,
// independent of which extraction path produced it. It is built fresh per
// resolve request and never persisted.
type Descriptor struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Duration    int      `json:"duration"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Uploader    string   `json:"uploader,omitempty"`
	Description string   `json:"description,omitempty"`
	Extractor   string   `json:"extractor"`
	WebpageURL  string   `json:"webpage_url"`
	Formats     []Format `json:"formats"`
}

// Format represents one directly fetchable rendition of a media item.
// URL is always non-empty; records without one are dropped by Normalize.
// Field names follow the yt-dlp JSON vocabulary so clients familiar with
// that shape need no translation. Absent fields are omitted, never null.
type Format struct {
	FormatID   string  `json:"format_id"`
	Ext        string  `json:"ext,omitempty"`
	URL        string  `json:"url"`
	Filesize   int64   `json:"filesize,omitempty"`
	Quality    string  `json:"quality"`
	Resolution string  `json:"resolution,omitempty"`
	Height     int     `json:"height,omitempty"`
	FPS        float64 `json:"fps,omitempty"`
	VCodec     string  `json:"vcodec,omitempty"`
	ACodec     string  `json:"acodec,omitempty"`
	FormatNote string  `json:"format_note,omitempty"`
}

// RawFormat is the tagged union of raw extraction records. The two variants
// come from the extraction backend and the generic page scanner; Normalize
// is the single translation boundary into the canonical Format.
type RawFormat interface {
	rawFormat()
}

// BackendFormat is a raw format record as emitted by the extraction
// backend (yt-dlp JSON dump shape). Any field may be missing.
type BackendFormat struct {
	FormatID   string  `json:"format_id"`
	Ext        string  `json:"ext"`
	URL        string  `json:"url"`
	Filesize   int64   `json:"filesize"`
	Height     int     `json:"height"`
	TBR        float64 `json:"tbr"`
	FPS        float64 `json:"fps"`
	VCodec     string  `json:"vcodec"`
	ACodec     string  `json:"acodec"`
	FormatNote string  `json:"format_note"`
	Resolution string  `json:"resolution"`
}

func (BackendFormat) rawFormat() {}

// GenericFormat is a raw format record produced by the generic HTML
// fallback extractor: a bare URL plus whatever the markup declared.
type GenericFormat struct {
	FormatID   string
	Ext        string
	URL        string
	Resolution string
}

func (GenericFormat) rawFormat() {}
