package site

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ziadkadry99/docsite/internal/progress"
)

type recordingReporter struct {
	total    int
	updates  []string
	finished bool
}

func (r *recordingReporter) Start(total int)              { r.total = total }
func (r *recordingReporter) Update(_ int, message string) { r.updates = append(r.updates, message) }
func (r *recordingReporter) Finish()                      { r.finished = true }

var _ progress.Reporter = (*recordingReporter)(nil)

func TestGenerate(t *testing.T) {
	cfg := testSite(t)
	writeTestFile(t, filepath.Join(cfg.Root, "static", "notes.md"), "excluded")
	writeTestFile(t, filepath.Join(cfg.Root, "static", ".DS_Store"), "excluded")
	cfg.AssetExclude = []string{"**/*.md", "**/.DS_Store"}

	r, loader := newTestRenderer(t, cfg)
	rep := &recordingReporter{}
	gen := NewGenerator(cfg, r, loader, rep, nil)

	report, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	out := cfg.OutputDir
	for _, name := range []string{
		"index.html",
		"documentation.html",
		"style.css",
		"search-index.json",
		"manifest.json",
		"images/logo.png",
		"docs/getting-started.md",
		"docs/cli.md",
	} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("expected %s in output: %v", name, err)
		}
	}
	for _, name := range []string{"notes.md", ".DS_Store"} {
		if _, err := os.Stat(filepath.Join(out, name)); !os.IsNotExist(err) {
			t.Errorf("%s should have been excluded", name)
		}
	}

	if report.Assets != 1 {
		t.Errorf("assets = %d, want 1", report.Assets)
	}
	if len(report.Pages) != 2 {
		t.Errorf("pages = %v", report.Pages)
	}
	if report.BuildID == "" {
		t.Error("build id should be set")
	}

	failed := report.Failed()
	if len(failed) != 2 || failed[0].ID != "missing" || failed[1].ID != "hidden" {
		t.Errorf("failed = %+v, want missing and hidden", failed)
	}

	if rep.total != 4 || len(rep.updates) != 4 || !rep.finished {
		t.Errorf("reporter total=%d updates=%d finished=%v", rep.total, len(rep.updates), rep.finished)
	}

	docPage, err := os.ReadFile(filepath.Join(out, "documentation.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(docPage), report.BuildID) {
		t.Error("documentation page should carry the build id")
	}

	data, err := os.ReadFile(filepath.Join(out, "manifest.json"))
	if err != nil {
		t.Fatal(err)
	}
	var manifest BuildReport
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("invalid manifest: %v", err)
	}
	if manifest.BuildID != report.BuildID {
		t.Errorf("manifest build id = %q, want %q", manifest.BuildID, report.BuildID)
	}
	if len(manifest.Sections) != 4 || manifest.Sections[2].Outcome != "not_found" {
		t.Errorf("manifest sections = %+v", manifest.Sections)
	}
}

func TestGenerateStrict(t *testing.T) {
	cfg := testSite(t)
	r, loader := newTestRenderer(t, cfg)
	gen := NewGenerator(cfg, r, loader, nil, nil)
	gen.Strict = true

	report, err := gen.Generate(context.Background())
	if !errors.Is(err, ErrSectionsFailed) {
		t.Fatalf("err = %v, want ErrSectionsFailed", err)
	}
	if !strings.Contains(err.Error(), "missing, hidden") {
		t.Errorf("error should name failed sections: %v", err)
	}
	if report == nil || len(report.Sections) != 4 {
		t.Error("report should be returned with a strict failure")
	}
	// Pages are still written so the failure can be inspected.
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "documentation.html")); err != nil {
		t.Errorf("documentation.html missing: %v", err)
	}
}

func TestGenerateRemovesStaleOutput(t *testing.T) {
	cfg := testSite(t)
	r, loader := newTestRenderer(t, cfg)
	gen := NewGenerator(cfg, r, loader, nil, nil)

	report, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	for _, want := range []string{"docs/cli.md", "images/logo.png", "index.html", "style.css"} {
		if !slices.Contains(report.Files, want) {
			t.Errorf("report files should list %s: %v", want, report.Files)
		}
	}

	out := cfg.OutputDir
	// Not written by the generator, so never removed.
	writeTestFile(t, filepath.Join(out, "CNAME"), "docs.example.org")

	if err := os.Remove(filepath.Join(cfg.Root, "docs", "cli.md")); err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(filepath.Join(cfg.Root, "static", "images")); err != nil {
		t.Fatal(err)
	}

	report, err = gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	for _, gone := range []string{"docs/cli.md", "images/logo.png", "images"} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(gone))); !os.IsNotExist(err) {
			t.Errorf("%s should have been removed", gone)
		}
	}
	for _, kept := range []string{"CNAME", "docs/getting-started.md", "index.html", "manifest.json"} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(kept))); err != nil {
			t.Errorf("%s should remain: %v", kept, err)
		}
	}
	if report.Assets != 0 {
		t.Errorf("assets = %d, want 0", report.Assets)
	}
}

func TestPruneStaleStaysInsideOutput(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "public")
	writeTestFile(t, filepath.Join(root, "secret.txt"), "keep")
	writeTestFile(t, filepath.Join(out, "old.html"), "old")

	removed := pruneStale(out, []string{"../secret.txt", "old.html"}, nil)
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(filepath.Join(root, "secret.txt")); err != nil {
		t.Errorf("file outside the output dir was touched: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output dir itself should remain: %v", err)
	}
}

func TestCopyTreeMissingSource(t *testing.T) {
	files, err := copyTree(filepath.Join(t.TempDir(), "nope"), t.TempDir(), nil)
	if err != nil || len(files) != 0 {
		t.Errorf("copyTree = %v, %v; want none, nil", files, err)
	}
}

func TestCopyTreeSkipsOutputInsideSource(t *testing.T) {
	src := t.TempDir()
	writeTestFile(t, filepath.Join(src, "a.css"), "a")
	writeTestFile(t, filepath.Join(src, "public", "old.html"), "old")

	files, err := copyTree(src, filepath.Join(src, "public"), nil)
	if err != nil {
		t.Fatalf("copyTree: %v", err)
	}
	if len(files) != 1 || files[0] != "a.css" {
		t.Errorf("copied = %v, want [a.css]", files)
	}
}

func TestExcluded(t *testing.T) {
	patterns := []string{"**/*.md", "drafts/**"}
	tests := []struct {
		path string
		want bool
	}{
		{"readme.md", true},
		{"a/b/notes.md", true},
		{"drafts/x.png", true},
		{"images/logo.png", false},
	}
	for _, tt := range tests {
		if got := excluded(tt.path, patterns); got != tt.want {
			t.Errorf("excluded(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
