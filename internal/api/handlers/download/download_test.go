package download

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MediaResolver/internal/core/proxy"
	"MediaResolver/internal/core/signer"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(t *testing.T, s *signer.Signer, p *proxy.Proxy) chi.Router {
	t.Helper()
	r := chi.NewRouter()
	handler := NewDownloadHandler(s, p)
	r.Get("/download/{token}", handler.HandleDownload)
	return r
}

func newTestSigner(t *testing.T) *signer.Signer {
	t.Helper()
	s, err := signer.New("test-secret", time.Minute, 100)
	if err != nil {
		t.Fatalf("signer.New: %v", err)
	}
	return s
}

func TestDownloadHandler_StreamsAsset(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("video-bytes"))
	}))
	defer origin.Close()

	s := newTestSigner(t)
	token, err := s.Sign(origin.URL+"/v.mp4", map[string]string{"title": "Clip", "ext": "mp4"})
	if err != nil {
		t.Fatal(err)
	}

	router := newTestRouter(t, s, proxy.New())
	req := httptest.NewRequest(http.MethodGet, "/download/"+token, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "video-bytes" {
		t.Errorf("body = %q", w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("Content-Disposition missing")
	}
}

func TestDownloadHandler_TokenIsSingleUse(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data"))
	}))
	defer origin.Close()

	s := newTestSigner(t)
	token, err := s.Sign(origin.URL, nil)
	if err != nil {
		t.Fatal(err)
	}

	router := newTestRouter(t, s, proxy.New())

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/download/"+token, nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d", first.Code)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/download/"+token, nil))
	if second.Code != http.StatusForbidden {
		t.Errorf("replayed token status = %d, want 403", second.Code)
	}
}

func TestDownloadHandler_InvalidToken(t *testing.T) {
	router := newTestRouter(t, newTestSigner(t), proxy.New())

	req := httptest.NewRequest(http.MethodGet, "/download/not-a-real-token", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}

	var envelope struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Success {
		t.Error("success = true on invalid token")
	}
	// Same message for forged and expired tokens.
	if envelope.Error != "Invalid or expired download link" {
		t.Errorf("error = %q", envelope.Error)
	}
}

func TestDownloadHandler_ExpiredTokenSameMessage(t *testing.T) {
	s, err := signer.New("test-secret", time.Nanosecond, 100)
	if err != nil {
		t.Fatal(err)
	}
	token, err := s.Sign("https://cdn.example.com/v", nil)
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	router := newTestRouter(t, s, proxy.New())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/download/"+token, nil))

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Error != "Invalid or expired download link" {
		t.Errorf("error = %q, want the generic message", envelope.Error)
	}
}

func TestDownloadHandler_OriginFailure(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer origin.Close()

	s := newTestSigner(t)
	token, err := s.Sign(origin.URL+"/gone.mp4", nil)
	if err != nil {
		t.Fatal(err)
	}

	router := newTestRouter(t, s, proxy.New())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/download/"+token, nil))

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestDownloadHandler_UnreachableOrigin(t *testing.T) {
	s := newTestSigner(t)
	token, err := s.Sign("http://127.0.0.1:1/unreachable", nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	router := newTestRouter(t, s, proxy.New())
	req := httptest.NewRequest(http.MethodGet, "/download/"+token, nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}
