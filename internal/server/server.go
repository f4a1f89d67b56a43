package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ziadkadry99/docsite/internal/config"
	"github.com/ziadkadry99/docsite/internal/docs"
	"github.com/ziadkadry99/docsite/internal/site"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server is the development server. It renders pages on every request so
// edits to the Markdown show up without a rebuild.
type Server struct {
	cfg        Config
	site       *config.Config
	renderer   *site.Renderer
	loader     *docs.Loader
	hub        *Hub
	logger     *slog.Logger
	router     chi.Router
	httpServer *http.Server

	searchMu    sync.Mutex
	searchIndex []site.SearchEntry
}

// New creates a server for the given site.
func New(cfg Config, siteCfg *config.Config, renderer *site.Renderer, loader *docs.Loader, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		site:     siteCfg,
		renderer: renderer,
		loader:   loader,
		hub:      NewHub(logger),
		logger:   logger,
	}
	renderer.SetLiveReload(true)

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Long-lived; kept out of the request timeout.
	r.Get("/ws/reload", s.hub.ServeWS)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		// Health check
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
		r.Handle("/metrics", promhttp.Handler())

		for _, p := range []string{"/", "/index.html", "/index.php"} {
			r.Get(p, s.handleIndex)
		}
		for _, p := range []string{"/documentation.html", "/documentation.php"} {
			r.Get(p, s.handleDocumentation)
		}
		r.Get("/style.css", s.handleStyle)

		r.Route("/api", func(r chi.Router) {
			r.Get("/sections", s.handleSections)
			r.Get("/sections/{id}", s.handleSection)
			r.Get("/search", s.handleSearch)
		})

		docsPrefix := "/" + config.DocsURLPrefix(s.site.DocsDir) + "/"
		r.Handle(docsPrefix+"*", http.StripPrefix(docsPrefix,
			http.FileServer(http.Dir(s.site.ResolvePath(s.site.DocsDir)))))

		// Static assets last.
		r.NotFound(http.FileServer(http.Dir(s.site.ResolvePath(s.site.AssetsDir))).ServeHTTP)
	})

	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Hub returns the live reload hub.
func (s *Server) Hub() *Hub { return s.hub }

// Reload drops cached state and tells every connected page to refresh.
func (s *Server) Reload() {
	s.searchMu.Lock()
	s.searchIndex = nil
	s.searchMu.Unlock()
	s.hub.Broadcast()
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("docsite server listening", "addr", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// OpenBrowser opens the given URL in the default browser.
func OpenBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
