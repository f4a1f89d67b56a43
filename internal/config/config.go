package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variable overrides. A double
// underscore separates nested keys: DOCSITE_SERVER__PORT -> server.port.
const EnvPrefix = "DOCSITE_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DOCSITE_*). Keys left unset fall back to
// DefaultConfig.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// Unmarshal into a zero value: decoding lists of groups on top of the
	// defaults would merge the two element by element.
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.applyDefaults(DefaultConfig())

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// applyDefaults fills every zero-valued field from def.
func (c *Config) applyDefaults(def *Config) {
	setString := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	setString(&c.SiteName, def.SiteName)
	setString(&c.Description, def.Description)
	setString(&c.Author, def.Author)
	setString(&c.Lead, def.Lead)
	setString(&c.Logo, def.Logo)
	setString(&c.Root, def.Root)
	setString(&c.DocsDir, def.DocsDir)
	setString(&c.AssetsDir, def.AssetsDir)
	setString(&c.OutputDir, def.OutputDir)
	setString(&c.FetchTimeout, def.FetchTimeout)
	setString(&c.Highlight, def.Highlight)
	setString(&c.Downloads, def.Downloads)
	setString(&c.Watch.Debounce, def.Watch.Debounce)
	if c.MissingDocs == "" {
		c.MissingDocs = def.MissingDocs
	}
	if c.MaxConcurrency == 0 {
		c.MaxConcurrency = def.MaxConcurrency
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.AssetExclude == nil {
		c.AssetExclude = def.AssetExclude
	}
	if len(c.Groups) == 0 {
		c.Groups = def.Groups
	}
	if c.Features == nil {
		c.Features = def.Features
	}
	if c.Community == nil {
		c.Community = def.Community
	}
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validMissingDocs = map[MissingDocsPolicy]bool{
	MissingOmit:   true,
	MissingNotice: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.SiteName == "" {
		return fmt.Errorf("site_name is required")
	}
	if c.DocsDir == "" {
		return fmt.Errorf("docs_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if !validMissingDocs[c.MissingDocs] {
		return fmt.Errorf("invalid missing_docs %q: must be one of omit, notice", c.MissingDocs)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be non-negative")
	}
	if c.FetchTimeout != "" {
		if d, err := time.ParseDuration(c.FetchTimeout); err != nil || d <= 0 {
			return fmt.Errorf("invalid fetch_timeout %q", c.FetchTimeout)
		}
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if len(c.Groups) == 0 {
		return fmt.Errorf("at least one group is required")
	}

	anchors := make(map[string]bool)
	ids := make(map[string]bool)
	for i, g := range c.Groups {
		if g.Anchor == "" {
			return fmt.Errorf("groups[%d]: anchor is required", i)
		}
		if anchors[g.Anchor] {
			return fmt.Errorf("groups[%d]: duplicate anchor %q", i, g.Anchor)
		}
		anchors[g.Anchor] = true
		for j, s := range g.Sections {
			if s.ID == "" {
				return fmt.Errorf("groups[%d].sections[%d]: id is required", i, j)
			}
			if ids[s.ID] {
				return fmt.Errorf("groups[%d].sections[%d]: duplicate section id %q", i, j, s.ID)
			}
			ids[s.ID] = true
			if s.URL == "" {
				return fmt.Errorf("section %q: url is required", s.ID)
			}
			if strings.Contains(s.URL, "?") || strings.Contains(s.URL, "://") {
				return fmt.Errorf("section %q: url %q must be a relative path without query", s.ID, s.URL)
			}
		}
	}

	return nil
}

// ResolvePath joins a Root-relative path onto Root.
func (c *Config) ResolvePath(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.Root, filepath.FromSlash(rel))
}

// Sections returns every configured section in page order.
func (c *Config) Sections() []Section {
	var out []Section
	for _, g := range c.Groups {
		out = append(out, g.Sections...)
	}
	return out
}

// DocsURLPrefix is the docs directory as it appears at the start of
// section URLs and under the output and server roots.
func DocsURLPrefix(docsDir string) string {
	if filepath.IsAbs(docsDir) {
		return filepath.Base(docsDir)
	}
	return strings.Trim(filepath.ToSlash(filepath.Clean(docsDir)), "/")
}

// RebaseSections moves every section URL under the oldDir docs directory
// to the same path under newDir. Other URLs are left alone.
func (c *Config) RebaseSections(oldDir, newDir string) {
	from, to := DocsURLPrefix(oldDir), DocsURLPrefix(newDir)
	if from == to || to == "." || to == "" {
		return
	}
	for gi := range c.Groups {
		secs := c.Groups[gi].Sections
		for si := range secs {
			url := strings.TrimPrefix(secs[si].URL, "/")
			if rest, ok := strings.CutPrefix(url, from+"/"); ok {
				secs[si].URL = to + "/" + rest
			}
		}
	}
}

// HighlightNone turns syntax highlighting off.
const HighlightNone = "none"

// HighlightStyle is the chroma style to highlight code blocks with, or ""
// when highlighting is off.
func (c *Config) HighlightStyle() string {
	if strings.EqualFold(c.Highlight, HighlightNone) {
		return ""
	}
	return c.Highlight
}
