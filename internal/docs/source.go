package docs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// maxDocumentSize caps how much of a response body is read (4 MB).
const maxDocumentSize = 4 << 20

// Source retrieves the raw Markdown text behind a document URL.
type Source interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// cleanRelative validates a page-relative document URL and returns it in
// slash-separated clean form.
func cleanRelative(rawURL string) (string, error) {
	if rawURL == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.IsAbs() || u.Host != "" || u.RawQuery != "" || u.ForceQuery {
		return "", fmt.Errorf("%w: %q must be relative without query", ErrInvalidURL, rawURL)
	}
	p := strings.TrimPrefix(u.Path, "/")
	p = path.Clean(p)
	if p == "." || p == ".." || strings.HasPrefix(p, "../") {
		return "", fmt.Errorf("%w: %q escapes the site root", ErrInvalidURL, rawURL)
	}
	return p, nil
}

// readDocument reads a whole document. Documents over maxDocumentSize are
// rejected rather than truncated.
func readDocument(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading document: %v", ErrFetch, err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", ErrFetch, maxDocumentSize)
	}
	return data, nil
}

// FileSource reads documents from disk. URLs resolve against Root, the
// directory the pages are served from.
type FileSource struct {
	Root string
}

// NewFileSource creates a FileSource rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{Root: dir}
}

// Fetch reads the document at rawURL below Root.
func (s *FileSource) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel, err := cleanRelative(rawURL)
	if err != nil {
		return nil, err
	}
	full := filepath.Join(s.Root, filepath.FromSlash(rel))

	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, rel)
	}

	return readDocument(f)
}

// HTTPSource issues unauthenticated GET requests relative to BaseURL.
type HTTPSource struct {
	BaseURL *url.URL
	Client  *http.Client
}

// NewHTTPSource creates an HTTPSource. A nil client uses http.DefaultClient.
func NewHTTPSource(baseURL string, client *http.Client) (*HTTPSource, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url %q: %w", baseURL, err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{BaseURL: u, Client: client}, nil
}

// Fetch GETs the document at rawURL. A 404 maps to ErrNotFound, any other
// non-2xx status to ErrFetch.
func (s *HTTPSource) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	rel, err := cleanRelative(rawURL)
	if err != nil {
		return nil, err
	}
	target := s.BaseURL.ResolveReference(&url.URL{Path: rel})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, */*;q=0.1")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, target)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: %s returned %s", ErrFetch, target, resp.Status)
	}

	return readDocument(resp.Body)
}
