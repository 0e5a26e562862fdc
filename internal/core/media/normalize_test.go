package media

import "testing"

func TestNormalize_DropsRecordsWithoutURL(t *testing.T) {
	raw := []RawFormat{
		BackendFormat{FormatID: "22", URL: "https://cdn.example.com/v22.mp4", Height: 720},
		BackendFormat{FormatID: "18"},
		GenericFormat{FormatID: "video"},
		GenericFormat{FormatID: "audio", URL: "https://cdn.example.com/a.mp3"},
	}

	formats := Normalize(raw)

	if len(formats) != 2 {
		t.Fatalf("Normalize returned %d formats, want 2", len(formats))
	}
	for _, f := range formats {
		if f.URL == "" {
			t.Errorf("format %q has empty URL", f.FormatID)
		}
	}
}

func TestNormalize_QualityLabelPriority(t *testing.T) {
	tests := []struct {
		name string
		raw  BackendFormat
		want string
	}{
		{
			name: "height wins over bitrate and note",
			raw:  BackendFormat{URL: "u", Height: 1080, TBR: 2500, FormatNote: "hd"},
			want: "1080p",
		},
		{
			name: "bitrate when no height",
			raw:  BackendFormat{URL: "u", TBR: 128, FormatNote: "low"},
			want: "128k",
		},
		{
			name: "format note when no height or bitrate",
			raw:  BackendFormat{URL: "u", FormatNote: "DASH audio"},
			want: "DASH audio",
		},
		{
			name: "unknown when nothing usable",
			raw:  BackendFormat{URL: "u"},
			want: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formats := Normalize([]RawFormat{tt.raw})
			if len(formats) != 1 {
				t.Fatalf("got %d formats, want 1", len(formats))
			}
			if formats[0].Quality != tt.want {
				t.Errorf("Quality = %q, want %q", formats[0].Quality, tt.want)
			}
		})
	}
}

func TestNormalize_PreservesInsertionOrder(t *testing.T) {
	raw := []RawFormat{
		BackendFormat{FormatID: "a", URL: "u1"},
		GenericFormat{FormatID: "b", URL: "u2"},
		BackendFormat{FormatID: "c", URL: "u3"},
	}

	formats := Normalize(raw)

	want := []string{"a", "b", "c"}
	for i, id := range want {
		if formats[i].FormatID != id {
			t.Errorf("formats[%d].FormatID = %q, want %q", i, formats[i].FormatID, id)
		}
	}
}

func TestNormalize_GenericResolutionHeight(t *testing.T) {
	tests := []struct {
		res  string
		want int
	}{
		{"720", 720},
		{"720p", 720},
		{"1280x720", 720},
		{"", 0},
		{"hd", 0},
	}

	for _, tt := range tests {
		formats := Normalize([]RawFormat{GenericFormat{FormatID: "video", URL: "u", Resolution: tt.res}})
		if formats[0].Height != tt.want {
			t.Errorf("resolution %q: Height = %d, want %d", tt.res, formats[0].Height, tt.want)
		}
	}
}

func TestNormalize_ToleratesEmptyInput(t *testing.T) {
	if got := Normalize(nil); len(got) != 0 {
		t.Errorf("Normalize(nil) returned %d formats, want 0", len(got))
	}
}

func TestDirectFormat(t *testing.T) {
	f := DirectFormat("https://cdn.example.com/raw", "")

	if f.FormatID != "direct" {
		t.Errorf("FormatID = %q, want %q", f.FormatID, "direct")
	}
	if f.Quality != "best" {
		t.Errorf("Quality = %q, want %q", f.Quality, "best")
	}
	if f.Ext != "mp4" {
		t.Errorf("Ext = %q, want default %q", f.Ext, "mp4")
	}
}
