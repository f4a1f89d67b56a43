package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/docsite/internal/docs"
	"github.com/ziadkadry99/docsite/internal/site"
)

// sectionResponse is the JSON body of /api/sections/{id}.
type sectionResponse struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Outcome string `json:"outcome"`
	Title   string `json:"title,omitempty"`
	HTML    string `json:"html,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.renderer.RenderIndex(&buf); err != nil {
		s.logger.Error("rendering index", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleDocumentation(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	results, err := s.renderer.RenderDocumentation(r.Context(), &buf)
	if err != nil {
		s.logger.Error("rendering documentation", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if failed := docs.Failed(results); len(failed) > 0 {
		s.logger.Debug("documentation rendered with missing sections", "failed", len(failed))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleStyle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write([]byte(site.Stylesheet()))
}

func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.renderer.Sections())
}

func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var section docs.Section
	found := false
	for _, sec := range s.renderer.Sections() {
		if sec.ID == id {
			section, found = sec, true
			break
		}
	}
	if !found {
		writeError(w, http.StatusNotFound, "unknown section: "+id)
		return
	}

	res := s.loader.Load(r.Context(), section)
	resp := sectionResponse{
		ID:      section.ID,
		URL:     section.URL,
		Outcome: res.Outcome(),
		Title:   res.Meta.Title,
	}
	if res.OK() {
		resp.HTML = res.HTML
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp.Error = res.Err.Error()
	status := http.StatusBadGateway
	if errors.Is(res.Err, docs.ErrNotFound) || errors.Is(res.Err, docs.ErrDraft) || errors.Is(res.Err, docs.ErrInvalidURL) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 20 {
		limit = 8
	}

	results := site.Search(s.index(r), query, limit)
	if results == nil {
		results = []site.SearchEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": query, "results": results})
}

// index returns the search index, loading every section on first use.
func (s *Server) index(r *http.Request) []site.SearchEntry {
	s.searchMu.Lock()
	defer s.searchMu.Unlock()
	if s.searchIndex != nil {
		return s.searchIndex
	}
	entries := site.BuildSearchIndex(s.loader.LoadAll(r.Context(), s.renderer.Sections()))
	if r.Context().Err() == nil {
		s.searchIndex = entries
	}
	return entries
}
