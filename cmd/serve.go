package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docsite/internal/server"
	"github.com/ziadkadry99/docsite/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the development server",
	Long: `Serves the site over HTTP, rendering pages on every request. With --watch
(the default) open pages reload when documents or assets change.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (defaults to server.port from config)")
	serveCmd.Flags().Bool("open", false, "open browser automatically")
	serveCmd.Flags().Bool("watch", true, "reload open pages when files change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	port := cfg.Server.Port
	if cmd.Flags().Changed("port") {
		port, _ = cmd.Flags().GetInt("port")
	}

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	srv := server.New(server.Config{
		Port:     port,
		AllowAll: cfg.Server.AllowAll,
	}, cfg, p.renderer, p.loader, slog.Default())

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if w, _ := cmd.Flags().GetBool("watch"); w {
		watcher, err := watch.New(watchDirs(cfg), watch.Options{
			Debounce: cfg.GetDebounce(),
			Exclude:  []string{cfg.OutputDir},
		})
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		go func() {
			if err := watcher.Run(ctx, func(paths []string) {
				slog.Debug("files changed", "paths", paths)
				srv.Reload()
			}); err != nil {
				slog.Error("watcher stopped", "error", err)
			}
		}()
	}

	url := fmt.Sprintf("http://localhost:%d", port)
	if open, _ := cmd.Flags().GetBool("open"); open {
		go server.OpenBrowser(url)
	}

	fmt.Fprintf(os.Stderr, "docsite %s serving %s at %s\n", Version, cfg.SiteName, url)
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to stop.")

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving site: %w", err)
	}
	return nil
}
