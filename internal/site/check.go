package site

import (
	"context"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ziadkadry99/docsite/internal/config"
	"github.com/ziadkadry99/docsite/internal/docs"
)

// CheckReport is the outcome of checking a site's documentation.
type CheckReport struct {
	Results []docs.Result
	// Orphans are Markdown files under the docs directory that no section
	// references, as root-relative slash paths.
	Orphans []string
}

// Failed returns the sections that did not load.
func (c *CheckReport) Failed() []docs.Result {
	return docs.Failed(c.Results)
}

// Check loads every configured section and looks for unreferenced documents.
func Check(ctx context.Context, cfg *config.Config, loader *docs.Loader) (*CheckReport, error) {
	report := &CheckReport{
		Results: loader.LoadAll(ctx, SectionsOf(cfg)),
	}
	orphans, err := FindOrphans(cfg)
	if err != nil {
		return report, err
	}
	report.Orphans = orphans
	return report, nil
}

// FindOrphans lists Markdown files under the docs directory that are not
// the URL of any section.
func FindOrphans(cfg *config.Config) ([]string, error) {
	docsRoot := cfg.ResolvePath(cfg.DocsDir)
	if _, err := os.Stat(docsRoot); os.IsNotExist(err) {
		return nil, nil
	}

	matches, err := doublestar.Glob(os.DirFS(docsRoot), "**/*.md")
	if err != nil {
		return nil, err
	}

	referenced := make(map[string]bool)
	for _, s := range cfg.Sections() {
		referenced[path.Clean(strings.TrimPrefix(s.URL, "/"))] = true
	}

	prefix := config.DocsURLPrefix(cfg.DocsDir)
	var orphans []string
	for _, m := range matches {
		rel := path.Join(prefix, m)
		if !referenced[rel] {
			orphans = append(orphans, rel)
		}
	}
	sort.Strings(orphans)
	return orphans, nil
}
