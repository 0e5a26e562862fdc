package proxy

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestServeDownload_RelaysBodyAsAttachment(t *testing.T) {
	var gotUA, gotReferer string
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		w.Header().Set("Content-Type", "video/mp4")
		_, _ = w.Write([]byte("fake video bytes"))
	}))
	t.Cleanup(origin.Close)

	p := New()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/download/tok", nil)

	err := p.ServeDownload(rec, req, origin.URL+"/v.mp4", map[string]string{"title": "My Clip", "ext": "mp4"})
	if err != nil {
		t.Fatalf("ServeDownload failed: %v", err)
	}

	if rec.Body.String() != "fake video bytes" {
		t.Errorf("body = %q", rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); got != "attachment; filename*=UTF-8''My%20Clip.mp4" {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/octet-stream" {
		t.Errorf("Content-Type = %q, want forced octet-stream", got)
	}
	if !strings.Contains(gotUA, "Mozilla/5.0") {
		t.Errorf("origin saw User-Agent %q, want browser-like", gotUA)
	}
	if !strings.HasPrefix(gotReferer, "http://") || !strings.HasSuffix(gotReferer, "/") {
		t.Errorf("origin saw Referer %q, want asset origin", gotReferer)
	}
}

func TestServeDownload_OriginErrorFailsBeforeBody(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	t.Cleanup(origin.Close)

	p := New()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/download/tok", nil)

	err := p.ServeDownload(rec, req, origin.URL+"/v.mp4", nil)
	if !errors.Is(err, ErrOriginStatus) {
		t.Fatalf("error = %v, want ErrOriginStatus", err)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body written despite origin error: %q", rec.Body.String())
	}
	if rec.Header().Get("Content-Disposition") != "" {
		t.Error("attachment headers set despite origin error")
	}
}

func TestServeDownload_UnreachableOrigin(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	origin.Close()

	p := New()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/download/tok", nil)

	if err := p.ServeDownload(rec, req, origin.URL+"/v.mp4", nil); !errors.Is(err, ErrOriginFetch) {
		t.Errorf("error = %v, want ErrOriginFetch", err)
	}
}

func TestServeDownload_ClientDisconnectCancelsOrigin(t *testing.T) {
	arrived := make(chan struct{})
	originDone := make(chan struct{})
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(originDone)
		close(arrived)
		<-r.Context().Done()
	}))
	t.Cleanup(origin.Close)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/download/tok", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	errCh := make(chan error, 1)
	go func() {
		errCh <- New().ServeDownload(rec, req, origin.URL+"/slow.mp4", nil)
	}()

	// Cancel only once the origin is holding the request open, so the
	// cancellation exercises the in-flight fetch rather than racing it.
	select {
	case <-arrived:
	case <-time.After(5 * time.Second):
		t.Fatal("origin request never arrived")
	}
	cancel()

	select {
	case <-errCh:
	case <-time.After(5 * time.Second):
		t.Fatal("ServeDownload did not return after client disconnect")
	}
	select {
	case <-originDone:
	case <-time.After(5 * time.Second):
		t.Fatal("origin request was not cancelled")
	}
}

func TestAttachmentFilename(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]string
		want     string
	}{
		{
			name:     "title and ext",
			metadata: map[string]string{"title": "My Clip", "ext": "webm"},
			want:     "My Clip.webm",
		},
		{
			name:     "strips unsafe characters",
			metadata: map[string]string{"title": `ev/il:"name"?*`, "ext": "mp4"},
			want:     "evilname.mp4",
		},
		{
			name:     "defaults when metadata empty",
			metadata: nil,
			want:     "download.mp4",
		},
		{
			name:     "truncates long titles",
			metadata: map[string]string{"title": strings.Repeat("a", 80)},
			want:     strings.Repeat("a", 50) + ".mp4",
		},
		{
			name:     "fully unsafe title falls back to default",
			metadata: map[string]string{"title": "///:::"},
			want:     "download.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := attachmentFilename(tt.metadata); got != tt.want {
				t.Errorf("attachmentFilename = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeFilename(t *testing.T) {
	if got := encodeFilename("My Clip.mp4"); got != "My%20Clip.mp4" {
		t.Errorf("encodeFilename = %q", got)
	}
}
