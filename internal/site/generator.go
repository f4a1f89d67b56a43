package site

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/ziadkadry99/docsite/internal/config"
	"github.com/ziadkadry99/docsite/internal/docs"
	"github.com/ziadkadry99/docsite/internal/metrics"
	"github.com/ziadkadry99/docsite/internal/progress"
)

// ErrSectionsFailed is returned by a strict build when any section failed to load.
var ErrSectionsFailed = errors.New("documentation sections failed to load")

// Generator writes the complete static site into the output directory.
type Generator struct {
	cfg      *config.Config
	renderer *Renderer
	loader   *docs.Loader
	reporter progress.Reporter
	logger   *slog.Logger

	// Strict turns any failed section into a build error.
	Strict bool
}

// NewGenerator creates a Generator. A nil reporter discards progress.
func NewGenerator(cfg *config.Config, renderer *Renderer, loader *docs.Loader, reporter progress.Reporter, logger *slog.Logger) *Generator {
	if reporter == nil {
		reporter = progress.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		cfg:      cfg,
		renderer: renderer,
		loader:   loader,
		reporter: reporter,
		logger:   logger,
	}
}

// SectionReport is the build outcome of one section, as written to manifest.json.
type SectionReport struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	Outcome    string `json:"outcome"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// BuildReport summarises a build.
type BuildReport struct {
	BuildID     string          `json:"build_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Pages       []string        `json:"pages"`
	Assets      int             `json:"assets"`
	Files       []string        `json:"files"`
	Sections    []SectionReport `json:"sections"`
}

// Failed returns the sections that did not load.
func (b *BuildReport) Failed() []SectionReport {
	var out []SectionReport
	for _, s := range b.Sections {
		if s.Outcome != "ok" {
			out = append(out, s)
		}
	}
	return out
}

// Generate builds the site. The report is returned even when a strict
// build fails.
func (g *Generator) Generate(ctx context.Context) (report *BuildReport, err error) {
	defer func() { metrics.ObserveBuild(err) }()

	report = &BuildReport{
		BuildID:     uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}
	g.renderer.SetBuildID(report.BuildID)

	outDir := g.cfg.OutputDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return report, fmt.Errorf("creating output dir: %w", err)
	}
	previous := previousFiles(outDir)

	// Static assets first so generated files win on name clashes.
	assets, err := copyTree(g.cfg.ResolvePath(g.cfg.AssetsDir), outDir, g.cfg.AssetExclude)
	if err != nil {
		return report, fmt.Errorf("copying assets: %w", err)
	}
	report.Assets = len(assets)
	report.Files = append(report.Files, assets...)

	// Keep the raw Markdown reachable at the URLs the sections name.
	docsPrefix := config.DocsURLPrefix(g.cfg.DocsDir)
	copied, err := copyTree(g.cfg.ResolvePath(g.cfg.DocsDir), filepath.Join(outDir, filepath.FromSlash(docsPrefix)), nil)
	if err != nil {
		return report, fmt.Errorf("copying docs: %w", err)
	}
	for _, f := range copied {
		report.Files = append(report.Files, path.Join(docsPrefix, f))
	}

	if err := os.WriteFile(filepath.Join(outDir, "style.css"), []byte(cssContent), 0o644); err != nil {
		return report, err
	}
	report.Files = append(report.Files, "style.css")

	var buf bytes.Buffer
	if err := g.renderer.RenderIndex(&buf); err != nil {
		return report, err
	}
	if err := writePage(outDir, "index.html", buf.Bytes()); err != nil {
		return report, err
	}
	report.Pages = append(report.Pages, "index.html")

	sections := g.renderer.Sections()
	g.reporter.Start(len(sections))
	g.loader.SetProgressFunc(func(done, total int, r docs.Result) {
		g.reporter.Update(done, r.Section.ID+" "+r.Outcome())
	})
	buf.Reset()
	results, err := g.renderer.RenderDocumentation(ctx, &buf)
	g.loader.SetProgressFunc(nil)
	g.reporter.Finish()
	if err != nil {
		return report, err
	}
	if err := writePage(outDir, "documentation.html", buf.Bytes()); err != nil {
		return report, err
	}
	report.Pages = append(report.Pages, "documentation.html")

	for _, r := range results {
		sr := SectionReport{
			ID:         r.Section.ID,
			URL:        r.Section.URL,
			Outcome:    r.Outcome(),
			DurationMS: r.Duration.Milliseconds(),
		}
		if r.Err != nil {
			sr.Error = r.Err.Error()
		}
		report.Sections = append(report.Sections, sr)
	}

	if err := WriteSearchIndex(BuildSearchIndex(results), filepath.Join(outDir, "search-index.json")); err != nil {
		return report, fmt.Errorf("writing search index: %w", err)
	}
	report.Files = append(report.Files, report.Pages...)
	report.Files = append(report.Files, "search-index.json")
	sort.Strings(report.Files)

	manifest, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return report, err
	}
	if err := os.WriteFile(filepath.Join(outDir, "manifest.json"), manifest, 0o644); err != nil {
		return report, fmt.Errorf("writing manifest: %w", err)
	}
	if removed := pruneStale(outDir, previous, report.Files); removed > 0 {
		g.logger.Info("removed stale output", "files", removed)
	}

	failed := report.Failed()
	g.logger.Info("site generated",
		"output", outDir,
		"build_id", report.BuildID,
		"sections", len(report.Sections),
		"failed", len(failed))

	if g.Strict && len(failed) > 0 {
		ids := make([]string, len(failed))
		for i, f := range failed {
			ids[i] = f.ID
		}
		return report, fmt.Errorf("%w: %s", ErrSectionsFailed, strings.Join(ids, ", "))
	}
	return report, nil
}

func writePage(dir, name string, data []byte) error {
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// previousFiles lists the files the last build recorded in manifest.json.
func previousFiles(outDir string) []string {
	data, err := os.ReadFile(filepath.Join(outDir, "manifest.json"))
	if err != nil {
		return nil
	}
	var prev BuildReport
	if err := json.Unmarshal(data, &prev); err != nil {
		return nil
	}
	return prev.Files
}

// pruneStale removes files an earlier build wrote that the current build
// did not, along with directories left empty. Files the generator never
// wrote are not touched.
func pruneStale(outDir string, previous, current []string) int {
	keep := make(map[string]bool, len(current))
	for _, f := range current {
		keep[f] = true
	}
	removed := 0
	for _, f := range previous {
		if keep[f] || !filepath.IsLocal(filepath.FromSlash(f)) {
			continue
		}
		target := filepath.Join(outDir, filepath.FromSlash(f))
		if err := os.Remove(target); err != nil {
			continue
		}
		removed++
		// os.Remove fails on non-empty directories, which ends the climb.
		for dir := filepath.Dir(target); dir != filepath.Clean(outDir); dir = filepath.Dir(dir) {
			if os.Remove(dir) != nil {
				break
			}
		}
	}
	return removed
}

// copyTree copies regular files from src into dst, skipping paths that
// match any exclude glob. It returns the copied paths relative to dst in
// slash form. A missing src copies nothing.
func copyTree(src, dst string, exclude []string) ([]string, error) {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil, nil
	}
	absDst, _ := filepath.Abs(dst)

	var copied []string
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Never copy the output into itself.
			if abs, _ := filepath.Abs(p); abs == absDst && p != src {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		if excluded(filepath.ToSlash(rel), exclude) {
			return nil
		}

		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return err
		}
		copied = append(copied, filepath.ToSlash(rel))
		return nil
	})
	return copied, err
}

func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}
