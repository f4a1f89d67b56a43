package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docsite/internal/config"
	"github.com/ziadkadry99/docsite/internal/progress"
	"github.com/ziadkadry99/docsite/internal/site"
	"github.com/ziadkadry99/docsite/internal/watch"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the static site",
	Long: `Generates index.html and documentation.html, copies the Markdown documents
and static assets, and writes a search index and build manifest into the
output directory.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("output", "", "override output directory")
	buildCmd.Flags().Bool("strict", false, "fail when any documentation section cannot be loaded")
	buildCmd.Flags().Bool("watch", false, "rebuild when documents or assets change")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.OutputDir = out
	}

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	gen := site.NewGenerator(cfg, p.renderer, p.loader, progress.NewReporter(), slog.Default())
	gen.Strict, _ = cmd.Flags().GetBool("strict")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := build(ctx, gen); err != nil {
		return err
	}

	if w, _ := cmd.Flags().GetBool("watch"); !w {
		return nil
	}

	watcher, err := watch.New(watchDirs(cfg), watch.Options{
		Debounce: cfg.GetDebounce(),
		Exclude:  []string{cfg.OutputDir},
	})
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Watching for changes. Press Ctrl+C to stop.")
	return watcher.Run(ctx, func(paths []string) {
		slog.Info("rebuilding", "changed", len(paths))
		if err := build(ctx, gen); err != nil {
			// Keep watching; the next edit may fix it.
			slog.Error("build failed", "error", err)
		}
	})
}

func build(ctx context.Context, gen *site.Generator) error {
	start := time.Now()
	report, err := gen.Generate(ctx)
	if report != nil && len(report.Sections) > 0 {
		for _, f := range report.Failed() {
			fmt.Fprintf(os.Stderr, "  missing %s (%s): %s\n", f.ID, f.URL, f.Outcome)
		}
	}
	if err != nil {
		if errors.Is(err, site.ErrSectionsFailed) {
			return err
		}
		return fmt.Errorf("generating site: %w", err)
	}

	fmt.Printf("Static site generated: %d pages, %d sections (%d missing), %d assets in %s\n",
		len(report.Pages), len(report.Sections), len(report.Failed()), report.Assets,
		time.Since(start).Round(time.Millisecond))
	return nil
}

// watchDirs lists the directories whose changes affect the site.
func watchDirs(cfg *config.Config) []string {
	return []string{cfg.ResolvePath(cfg.DocsDir), cfg.ResolvePath(cfg.AssetsDir)}
}
