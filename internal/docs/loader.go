package docs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ziadkadry99/docsite/internal/metrics"
)

// Section binds a placeholder element id to a document URL.
type Section struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Result is the outcome of loading one section. Exactly one of HTML and
// Err is meaningful: a failed load never carries partial HTML.
type Result struct {
	Section  Section
	HTML     string
	Meta     Meta
	Err      error
	Duration time.Duration
}

// OK reports whether the section loaded and converted successfully.
func (r Result) OK() bool { return r.Err == nil }

// Outcome returns a short label for the result, used in logs and metrics.
func (r Result) Outcome() string {
	switch {
	case r.Err == nil:
		return "ok"
	case errors.Is(r.Err, ErrNotFound):
		return "not_found"
	case errors.Is(r.Err, ErrDraft):
		return "draft"
	case errors.Is(r.Err, ErrInvalidURL):
		return "invalid_url"
	case errors.Is(r.Err, ErrConvert):
		return "convert_error"
	case errors.Is(r.Err, context.Canceled), errors.Is(r.Err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "fetch_error"
	}
}

// ProgressFunc is called once per finished section.
type ProgressFunc func(done, total int, r Result)

// LoaderOptions tunes a Loader. Zero values pick defaults.
type LoaderOptions struct {
	Concurrency int           // parallel fetches (default 8)
	Timeout     time.Duration // per-document fetch timeout (0 = none)
	Logger      *slog.Logger
}

// Loader fetches section documents and converts them to HTML.
type Loader struct {
	source      Source
	converter   Converter
	concurrency int
	timeout     time.Duration
	logger      *slog.Logger
	onProgress  ProgressFunc
}

// NewLoader creates a Loader reading from source and converting with converter.
func NewLoader(source Source, converter Converter, opts LoaderOptions) *Loader {
	if opts.Concurrency < 1 {
		opts.Concurrency = 8
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Loader{
		source:      source,
		converter:   converter,
		concurrency: opts.Concurrency,
		timeout:     opts.Timeout,
		logger:      opts.Logger,
	}
}

// SetProgressFunc sets the progress callback used by LoadAll.
func (l *Loader) SetProgressFunc(fn ProgressFunc) {
	l.onProgress = fn
}

// Load fetches and converts a single section. It never retries.
func (l *Loader) Load(ctx context.Context, s Section) Result {
	start := time.Now()
	res := l.load(ctx, s)
	res.Duration = time.Since(start)

	metrics.ObserveSectionLoad(s.ID, res.Outcome(), res.Duration)
	if res.OK() {
		l.logger.Debug("section loaded", "section", s.ID, "url", s.URL, "duration", res.Duration)
	} else {
		l.logger.Warn("section not loaded", "section", s.ID, "url", s.URL, "outcome", res.Outcome(), "error", res.Err)
	}
	return res
}

func (l *Loader) load(ctx context.Context, s Section) Result {
	res := Result{Section: s}

	fetchCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	raw, err := l.source.Fetch(fetchCtx, s.URL)
	if err != nil {
		res.Err = fmt.Errorf("section %s: %w", s.ID, err)
		return res
	}

	meta, body, err := splitFrontMatter(raw)
	if err != nil {
		res.Err = fmt.Errorf("section %s: %w", s.ID, err)
		return res
	}
	res.Meta = meta
	if meta.Draft {
		res.Err = fmt.Errorf("section %s: %w", s.ID, ErrDraft)
		return res
	}

	html, err := l.converter.Convert(body)
	if err != nil {
		res.Err = fmt.Errorf("section %s: %w", s.ID, err)
		return res
	}
	res.HTML = html
	return res
}

// LoadAll loads every section exactly once, concurrently. Completion order
// is unconstrained; results come back in the order of sections.
func (l *Loader) LoadAll(ctx context.Context, sections []Section) []Result {
	total := len(sections)
	results := make([]Result, total)
	if total == 0 {
		return results
	}

	sem := make(chan struct{}, l.concurrency)
	var processed int64
	var progressMu sync.Mutex
	report := func(r Result) {
		count := atomic.AddInt64(&processed, 1)
		if l.onProgress != nil {
			progressMu.Lock()
			l.onProgress(int(count), total, r)
			progressMu.Unlock()
		}
	}

	var wg sync.WaitGroup
	for i, s := range sections {
		select {
		case <-ctx.Done():
			results[i] = Result{Section: s, Err: fmt.Errorf("section %s: %w", s.ID, ctx.Err())}
			report(results[i])
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, s Section) {
			defer wg.Done()
			defer func() { <-sem }()

			results[i] = l.Load(ctx, s)
			report(results[i])
		}(i, s)
	}

	wg.Wait()
	return results
}

// Failed returns the results that did not load.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}
