package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/image-gallery/internal/config"
	"github.com/samvad-hq/image-gallery/pkg/publishers"
)

func photoAPI(t *testing.T, failPath string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == failPath {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/photos/")
		_, _ = fmt.Fprintf(w, `{"id":%s,"url":"https://img.example/%s.png"}`, id, id)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// webhook records published events.
type webhook struct {
	mu     sync.Mutex
	events []publishers.Event
}

func (h *webhook) serve(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var evt publishers.Event
		if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
			t.Errorf("decode event: %v", err)
		}
		h.mu.Lock()
		h.events = append(h.events, evt)
		h.mu.Unlock()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (h *webhook) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testConfig(t *testing.T, apiURL, hookURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		AppName:        "image-gallery",
		RenderFormat:   config.RenderHTML,
		RequestTimeout: 2 * time.Second,
		SourcesFile: writeFile(t, dir, "sources.yaml", fmt.Sprintf(`
sources:
  - id: one
    url: %[1]s/photos/1
  - id: two
    url: %[1]s/photos/2
`, apiURL)),
		StorageType:            "bbolt",
		BBoltPath:              filepath.Join(dir, "gallery.db"),
		StorageTTL:             time.Hour,
		StorageCleanupInterval: time.Hour,
	}
	if hookURL != "" {
		cfg.PublishersFile = writeFile(t, dir, "publishers.yaml", fmt.Sprintf(`
publishers:
  - id: hook
    type: http
    http:
      url: %s
`, hookURL))
	}
	return cfg
}

func TestRunRendersImagesAndPublishesOnce(t *testing.T) {
	api := photoAPI(t, "")
	hook := &webhook{}
	hookSrv := hook.serve(t)
	cfg := testConfig(t, api.URL, hookSrv.URL)

	var out bytes.Buffer
	g, err := NewGallery(context.Background(), cfg, nil, &out)
	if err != nil {
		t.Fatalf("NewGallery: %v", err)
	}
	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	html := out.String()
	first := strings.Index(html, `src="https://img.example/1.png"`)
	second := strings.Index(html, `src="https://img.example/2.png"`)
	if first < 0 || second < 0 || first > second {
		t.Fatalf("expected both images in order, got %s", html)
	}
	if hook.count() != 1 || hook.events[0].Status != "success" || len(hook.events[0].Images) != 2 {
		t.Fatalf("unexpected published events %#v", hook.events)
	}

	// A second run with the same outcome and store is not republished.
	g2, err := NewGallery(context.Background(), cfg, nil, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("NewGallery (second): %v", err)
	}
	if err := g2.Run(context.Background()); err != nil {
		t.Fatalf("Run (second): %v", err)
	}
	if hook.count() != 1 {
		t.Fatalf("expected unchanged gallery to be skipped, got %d events", hook.count())
	}
}

func TestRunShowsErrorWhenAnEndpointFails(t *testing.T) {
	api := photoAPI(t, "/photos/2")
	hook := &webhook{}
	hookSrv := hook.serve(t)
	cfg := testConfig(t, api.URL, hookSrv.URL)
	cfg.RenderFormat = config.RenderText

	var out bytes.Buffer
	g, err := NewGallery(context.Background(), cfg, nil, &out)
	if err != nil {
		t.Fatalf("NewGallery: %v", err)
	}
	err = g.Run(context.Background())
	if !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("expected ErrLoadFailed, got %v", err)
	}
	if out.String() != "Error fetching image: Network response was not ok\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if g.State().Images != nil {
		t.Fatalf("expected no images on failure")
	}
	if hook.count() != 1 || hook.events[0].Status != "error" || hook.events[0].Error == "" {
		t.Fatalf("expected error event published, got %#v", hook.events)
	}
}

func TestNewGalleryRejectsBadSourcesFile(t *testing.T) {
	cfg := testConfig(t, "http://localhost", "")
	cfg.SourcesFile = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := NewGallery(context.Background(), cfg, nil, nil); err == nil {
		t.Fatalf("expected error for missing sources file")
	}
	if _, err := NewGallery(context.Background(), nil, nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
