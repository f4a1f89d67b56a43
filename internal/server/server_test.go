package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/docsite/internal/config"
	"github.com/ziadkadry99/docsite/internal/docs"
	"github.com/ziadkadry99/docsite/internal/site"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// brokenSource fails every fetch of one url with a transport error.
type brokenSource struct {
	docs.Source
	url string
}

func (s brokenSource) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == s.url {
		return nil, fmt.Errorf("%w: connection refused", docs.ErrFetch)
	}
	return s.Source.Fetch(ctx, url)
}

func setupTest(t *testing.T, allowAll bool) *Server {
	t.Helper()
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "docs", "getting-started.md"), "# Hello\n\nStart with the framework jar.\n")
	writeTestFile(t, filepath.Join(root, "static", "images", "logo.png"), "png")

	cfg := config.DefaultConfig()
	cfg.Root = root
	cfg.Groups = []config.Group{{
		Anchor: "basic",
		Title:  "1. Running",
		Sections: []config.Section{
			{ID: "gs", URL: "docs/getting-started.md"},
			{ID: "missing", URL: "docs/missing.md"},
			{ID: "remote", URL: "docs/remote.md"},
		},
	}}

	conv := docs.NewGoldmark("")
	src := brokenSource{Source: docs.NewFileSource(root), url: "docs/remote.md"}
	loader := docs.NewLoader(src, conv, docs.LoaderOptions{})
	renderer, err := site.NewRenderer(cfg, loader, conv, nil)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return New(Config{Port: 0, AllowAll: allowAll}, cfg, renderer, loader, nil)
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	srv := setupTest(t, false)
	w := get(t, srv, "/healthz")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := setupTest(t, true)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestPages(t *testing.T) {
	srv := setupTest(t, false)

	tests := []struct {
		path string
		want string
	}{
		{"/", `id="intro"`},
		{"/index.html", `id="intro"`},
		{"/index.php", `id="intro"`},
		{"/documentation.html", `<div id="gs"><h1 id="hello">Hello</h1>`},
		{"/documentation.php", `<a class="anchor" name="basic"></a>`},
		{"/style.css", "a.anchor"},
		{"/docs/getting-started.md", "# Hello"},
		{"/images/logo.png", "png"},
	}
	for _, tt := range tests {
		w := get(t, srv, tt.path)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", tt.path, w.Code)
			continue
		}
		if !strings.Contains(w.Body.String(), tt.want) {
			t.Errorf("GET %s body should contain %q", tt.path, tt.want)
		}
	}
}

func TestDocumentationOmitsFailedSections(t *testing.T) {
	srv := setupTest(t, false)
	body := get(t, srv, "/documentation.html").Body.String()

	for _, want := range []string{`<div id="missing"></div>`, `<div id="remote"></div>`, "/ws/reload"} {
		if !strings.Contains(body, want) {
			t.Errorf("documentation should contain %q", want)
		}
	}
}

func TestUnknownAsset(t *testing.T) {
	srv := setupTest(t, false)
	if w := get(t, srv, "/nope.png"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestAPISections(t *testing.T) {
	srv := setupTest(t, false)
	w := get(t, srv, "/api/sections")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var sections []docs.Section
	if err := json.Unmarshal(w.Body.Bytes(), &sections); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(sections) != 3 || sections[0].ID != "gs" {
		t.Errorf("sections = %+v", sections)
	}
}

func TestAPISection(t *testing.T) {
	srv := setupTest(t, false)

	tests := []struct {
		id      string
		status  int
		outcome string
	}{
		{"gs", http.StatusOK, "ok"},
		{"missing", http.StatusNotFound, "not_found"},
		{"remote", http.StatusBadGateway, "fetch_error"},
	}
	for _, tt := range tests {
		w := get(t, srv, "/api/sections/"+tt.id)
		if w.Code != tt.status {
			t.Errorf("section %s status = %d, want %d", tt.id, w.Code, tt.status)
			continue
		}
		var resp sectionResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if resp.Outcome != tt.outcome {
			t.Errorf("section %s outcome = %q, want %q", tt.id, resp.Outcome, tt.outcome)
		}
		if tt.status == http.StatusOK && resp.HTML != `<h1 id="hello">Hello</h1>`+"\n"+`<p>Start with the framework jar.</p>`+"\n" {
			t.Errorf("section %s html = %q", tt.id, resp.HTML)
		}
		if tt.status != http.StatusOK && (resp.HTML != "" || resp.Error == "") {
			t.Errorf("section %s should carry an error and no html: %+v", tt.id, resp)
		}
	}
}

func TestAPISectionUnknown(t *testing.T) {
	srv := setupTest(t, false)
	w := get(t, srv, "/api/sections/nope")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "unknown section") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestAPISearch(t *testing.T) {
	srv := setupTest(t, false)

	w := get(t, srv, "/api/search?q=framework")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Query   string             `json:"query"`
		Results []site.SearchEntry `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Section != "gs" {
		t.Errorf("results = %+v", resp.Results)
	}

	if w := get(t, srv, "/api/search"); w.Code != http.StatusBadRequest {
		t.Errorf("empty query status = %d, want 400", w.Code)
	}
}

func TestSearchIndexResetOnReload(t *testing.T) {
	srv := setupTest(t, false)
	get(t, srv, "/api/search?q=hello")

	writeTestFile(t, filepath.Join(srv.site.Root, "docs", "getting-started.md"), "# Hello\n\nNow about bundles.\n")
	srv.Reload()

	body := get(t, srv, "/api/search?q=bundles").Body.String()
	if !strings.Contains(body, `"section":"gs"`) {
		t.Errorf("search should see the edited document: %s", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := setupTest(t, false)
	get(t, srv, "/documentation.html")

	w := get(t, srv, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "docsite_section_loads_total") {
		t.Error("metrics should expose section load counter")
	}
}

func TestLiveReload(t *testing.T) {
	srv := setupTest(t, false)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/reload"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}

	deadline := time.Now().Add(2 * time.Second)
	for srv.Hub().Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	srv.Reload()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != "reload" {
		t.Errorf("message = %q, want reload", msg)
	}
}

func TestNestedDocsDirServed(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "content", "docs", "intro.md"), "# Intro\n")

	cfg := config.DefaultConfig()
	cfg.Root = root
	cfg.DocsDir = "content/docs"
	cfg.Groups = []config.Group{{
		Anchor:   "basic",
		Title:    "1. Running",
		Sections: []config.Section{{ID: "intro", URL: "content/docs/intro.md"}},
	}}

	conv := docs.NewGoldmark("")
	loader := docs.NewLoader(docs.NewFileSource(root), conv, docs.LoaderOptions{})
	renderer, err := site.NewRenderer(cfg, loader, conv, nil)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	srv := New(Config{}, cfg, renderer, loader, nil)

	w := get(t, srv, "/content/docs/intro.md")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "# Intro") {
		t.Errorf("body = %q, want the raw markdown", w.Body.String())
	}
}
