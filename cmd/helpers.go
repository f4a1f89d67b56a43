package cmd

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ziadkadry99/docsite/internal/config"
	"github.com/ziadkadry99/docsite/internal/docs"
	"github.com/ziadkadry99/docsite/internal/site"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docsite init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// createSource picks where documents are fetched from: the remote site
// when base_url is set, the local site root otherwise.
func createSource(cfg *config.Config) (docs.Source, error) {
	if cfg.BaseURL != "" {
		return docs.NewHTTPSource(cfg.BaseURL, &http.Client{})
	}
	return docs.NewFileSource(cfg.Root), nil
}

// pipeline bundles the loader and renderer shared by build, serve and check.
type pipeline struct {
	loader   *docs.Loader
	renderer *site.Renderer
}

func newPipeline(cfg *config.Config) (*pipeline, error) {
	source, err := createSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating document source: %w", err)
	}
	converter := docs.NewGoldmark(cfg.HighlightStyle())
	loader := docs.NewLoader(source, converter, docs.LoaderOptions{
		Concurrency: cfg.MaxConcurrency,
		Timeout:     cfg.GetFetchTimeout(),
		Logger:      slog.Default(),
	})
	renderer, err := site.NewRenderer(cfg, loader, converter, slog.Default())
	if err != nil {
		return nil, err
	}
	return &pipeline{loader: loader, renderer: renderer}, nil
}
