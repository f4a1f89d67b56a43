package site

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"

	"github.com/ziadkadry99/docsite/internal/config"
	"github.com/ziadkadry99/docsite/internal/docs"
	"github.com/ziadkadry99/docsite/internal/metrics"
)

// Page names, also used as metric labels.
const (
	PageIndex         = "index"
	PageDocumentation = "documentation"
)

// Renderer assembles pages from the shell templates. It is safe for
// concurrent use.
type Renderer struct {
	cfg        *config.Config
	loader     *docs.Loader
	converter  docs.Converter
	tmpl       *template.Template
	logger     *slog.Logger
	liveReload bool
	buildID    string
}

// pageData holds the data passed to the page templates.
type pageData struct {
	Title      string
	Site       *config.Config
	Groups     []groupView
	Features   []featureView
	LiveReload bool
	BuildID    string
}

type groupView struct {
	Anchor   string
	Title    string
	Label    string
	Sections []sectionView
}

type sectionView struct {
	ID      string
	Content template.HTML
}

type featureView struct {
	Header    string
	Body      template.HTML
	Image     string
	ImageLeft bool
}

// NewRenderer parses the shell templates. converter renders the Markdown
// bodies of index page features.
func NewRenderer(cfg *config.Config, loader *docs.Loader, converter docs.Converter, logger *slog.Logger) (*Renderer, error) {
	tmpl, err := template.New("site").Parse(shellTemplates)
	if err != nil {
		return nil, fmt.Errorf("parsing page templates: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		cfg:       cfg,
		loader:    loader,
		converter: converter,
		tmpl:      tmpl,
		logger:    logger,
	}, nil
}

// SetLiveReload makes pages open a websocket to /ws/reload and refresh on
// every message.
func (r *Renderer) SetLiveReload(on bool) { r.liveReload = on }

// SetBuildID stamps generated pages with a build identifier.
func (r *Renderer) SetBuildID(id string) { r.buildID = id }

// Sections returns the configured sections in page order.
func (r *Renderer) Sections() []docs.Section {
	return SectionsOf(r.cfg)
}

// SectionsOf converts the configured groups into loader sections.
func SectionsOf(cfg *config.Config) []docs.Section {
	var out []docs.Section
	for _, s := range cfg.Sections() {
		out = append(out, docs.Section{ID: s.ID, URL: s.URL})
	}
	return out
}

func (r *Renderer) base(title string) pageData {
	return pageData{
		Title:      title,
		Site:       r.cfg,
		Groups:     r.groups(nil),
		LiveReload: r.liveReload,
		BuildID:    r.buildID,
	}
}

// RenderIndex writes the feature page.
func (r *Renderer) RenderIndex(w io.Writer) error {
	data := r.base(r.cfg.Description)

	for i, f := range r.cfg.Features {
		body, err := r.converter.Convert([]byte(f.Body))
		if err != nil {
			return fmt.Errorf("feature %q: %w", f.Header, err)
		}
		data.Features = append(data.Features, featureView{
			Header:    f.Header,
			Body:      template.HTML(body),
			Image:     f.Image,
			ImageLeft: i%2 == 0,
		})
	}

	if err := r.tmpl.ExecuteTemplate(w, PageIndex, data); err != nil {
		return fmt.Errorf("rendering index: %w", err)
	}
	metrics.ObservePageRender(PageIndex)
	return nil
}

// RenderDocumentation loads every configured section once and writes the
// documentation page. The per-section results are returned so callers can
// report failures; a failed section never fails the page.
func (r *Renderer) RenderDocumentation(ctx context.Context, w io.Writer) ([]docs.Result, error) {
	results := r.loader.LoadAll(ctx, r.Sections())
	byID := make(map[string]docs.Result, len(results))
	for _, res := range results {
		byID[res.Section.ID] = res
	}

	data := r.base(r.cfg.SiteName + " - Documentation")
	data.Groups = r.groups(byID)

	if err := r.tmpl.ExecuteTemplate(w, PageDocumentation, data); err != nil {
		return results, fmt.Errorf("rendering documentation: %w", err)
	}
	metrics.ObservePageRender(PageDocumentation)
	return results, nil
}

func (r *Renderer) groups(results map[string]docs.Result) []groupView {
	views := make([]groupView, 0, len(r.cfg.Groups))
	for _, g := range r.cfg.Groups {
		label := g.Label
		if label == "" {
			label = g.Title
		}
		gv := groupView{Anchor: g.Anchor, Title: g.Title, Label: label}
		for _, s := range g.Sections {
			gv.Sections = append(gv.Sections, sectionView{
				ID:      s.ID,
				Content: r.placeholder(results, s.ID),
			})
		}
		views = append(views, gv)
	}
	return views
}

// placeholder returns what goes inside a section's element.
func (r *Renderer) placeholder(results map[string]docs.Result, id string) template.HTML {
	res, ok := results[id]
	if !ok {
		return ""
	}
	if res.OK() {
		return template.HTML(res.HTML)
	}
	// Drafts are hidden on purpose and never announced.
	if errors.Is(res.Err, docs.ErrDraft) {
		return ""
	}
	if r.cfg.MissingDocs == config.MissingNotice {
		return template.HTML(fmt.Sprintf(`<p class="doc-missing">%s is not available.</p>`,
			template.HTMLEscapeString(res.Section.URL)))
	}
	return ""
}
