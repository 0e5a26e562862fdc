package ytdlp

import (
	"errors"
	"testing"
)

func TestParseDump_SingleVideo(t *testing.T) {
	data := []byte(`{
		"id": "dQw4w9WgXcQ",
		"title": "A Video",
		"duration": 212.5,
		"thumbnail": "https://i.ytimg.com/vi/dQw4w9WgXcQ/hq.jpg",
		"uploader": "someone",
		"extractor": "youtube",
		"webpage_url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"formats": [
			{"format_id": "18", "ext": "mp4", "url": "https://r1.example.com/18", "height": 360, "vcodec": "avc1", "acodec": "mp4a"},
			{"format_id": "22", "ext": "mp4", "url": "https://r1.example.com/22", "height": 720, "vcodec": "avc1", "acodec": "mp4a"}
		]
	}`)

	info, err := parseDump(data)
	if err != nil {
		t.Fatalf("parseDump failed: %v", err)
	}

	if info.ID != "dQw4w9WgXcQ" || info.Duration != 212 {
		t.Errorf("info = %+v", info)
	}
	if len(info.Formats) != 2 {
		t.Fatalf("got %d formats, want 2", len(info.Formats))
	}
	if info.Formats[1].Height != 720 {
		t.Errorf("Formats[1].Height = %d, want 720", info.Formats[1].Height)
	}
}

func TestParseDump_PlaylistUsesFirstEntry(t *testing.T) {
	data := []byte(`{
		"id": "PL123",
		"title": "Some Playlist",
		"webpage_url": "https://example.com/playlist",
		"entries": [
			{
				"id": "v1",
				"title": "First Entry",
				"formats": [{"format_id": "0", "url": "https://r.example.com/v1"}]
			},
			{"id": "v2", "title": "Second Entry"}
		]
	}`)

	info, err := parseDump(data)
	if err != nil {
		t.Fatalf("parseDump failed: %v", err)
	}
	if info.ID != "v1" || info.Title != "First Entry" {
		t.Errorf("playlist not unwrapped to first entry: %+v", info)
	}
	if info.WebpageURL != "https://example.com/playlist" {
		t.Errorf("WebpageURL = %q, want inherited playlist URL", info.WebpageURL)
	}
}

func TestParseDump_DirectURLOnly(t *testing.T) {
	data := []byte(`{
		"id": "x",
		"title": "Direct",
		"url": "https://cdn.example.com/direct.mp4",
		"ext": "mp4"
	}`)

	info, err := parseDump(data)
	if err != nil {
		t.Fatalf("parseDump failed: %v", err)
	}
	if info.URL != "https://cdn.example.com/direct.mp4" || info.Ext != "mp4" {
		t.Errorf("direct URL fields = %q/%q", info.URL, info.Ext)
	}
	if len(info.Formats) != 0 {
		t.Errorf("got %d formats, want 0", len(info.Formats))
	}
}

func TestParseDump_InvalidJSON(t *testing.T) {
	if _, err := parseDump([]byte("ERROR: not json")); !errors.Is(err, ErrExtraction) {
		t.Errorf("error = %v, want ErrExtraction", err)
	}
}
