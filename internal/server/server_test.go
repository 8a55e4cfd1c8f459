package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte("<h1>Ada</h1>"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "images"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "images", "logo.png"), []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}
	return root
}

// TestHealthEndpoint tests the /healthz endpoint
func TestHealthEndpoint(t *testing.T) {
	s := New(Config{Root: t.TempDir()})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestStaticFiles_NoCache(t *testing.T) {
	s := New(Config{Root: newTestSite(t)})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<h1>Ada</h1>") {
		t.Errorf("expected index.html body, got %q", w.Body.String())
	}
	if got := w.Header().Get("Cache-Control"); got != "no-cache, no-store, must-revalidate" {
		t.Errorf("unexpected Cache-Control %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/images/logo.png", nil)
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "png" {
		t.Errorf("expected asset, got %d %q", w.Code, w.Body.String())
	}
}

func TestStaticFiles_NoDirectoryListing(t *testing.T) {
	s := New(Config{Root: newTestSite(t)})

	req := httptest.NewRequest(http.MethodGet, "/images/", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	s := New(Config{Root: t.TempDir()})
	built := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Publish(BuildStatus{BuiltAt: built, OK: 13, Skipped: 1})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var got BuildStatus
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !got.BuiltAt.Equal(built) || got.OK != 13 || got.Skipped != 1 {
		t.Errorf("unexpected status %+v", got)
	}
}

func TestCORS_LocalhostOrigin(t *testing.T) {
	s := New(Config{Root: t.TempDir()})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("expected localhost origin to be allowed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected foreign origin to be rejected, got %q", got)
	}
}

// TestSSEWriter tests SSE event writing
func TestSSEWriter(t *testing.T) {
	w := httptest.NewRecorder()

	sse, err := NewSSEWriter(w)
	if err != nil {
		t.Fatalf("failed to create SSE writer: %v", err)
	}

	if err := sse.WriteBuild(BuildStatus{OK: 14}); err != nil {
		t.Fatalf("failed to write event: %v", err)
	}
	if err := sse.WriteBuild(BuildStatus{Error: "content invalid"}); err != nil {
		t.Fatalf("failed to write event: %v", err)
	}

	if !bytes.Contains(w.Body.Bytes(), []byte("event: rebuild")) {
		t.Error("expected 'event: rebuild' in output")
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("event: error")) {
		t.Error("expected 'event: error' in output")
	}
	if w.Header().Get("Content-Type") != "text/event-stream" {
		t.Errorf("unexpected content type %q", w.Header().Get("Content-Type"))
	}
}

func readEvent(t *testing.T, r *bufio.Reader) (string, BuildStatus) {
	t.Helper()
	var name string
	var status BuildStatus
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("failed to read event: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &status); err != nil {
				t.Fatalf("bad event data: %v", err)
			}
		case line == "" && name != "":
			return name, status
		}
	}
}

func TestEventsStream_CurrentThenRebuild(t *testing.T) {
	s := New(Config{Root: t.TempDir()})
	s.Publish(BuildStatus{OK: 1})

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	reader := bufio.NewReader(resp.Body)

	name, status := readEvent(t, reader)
	if name != EventStatus || status.OK != 1 {
		t.Fatalf("expected initial status event, got %s %+v", name, status)
	}

	s.Publish(BuildStatus{OK: 2})
	name, status = readEvent(t, reader)
	if name != EventRebuild || status.OK != 2 {
		t.Fatalf("expected rebuild event, got %s %+v", name, status)
	}
}

func TestStart_StopsOnCancel(t *testing.T) {
	s := New(Config{Port: 0, Root: t.TempDir()})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
