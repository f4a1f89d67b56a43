package docs

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Converter turns Markdown text into HTML.
type Converter interface {
	Convert(markdown []byte) (string, error)
}

// Goldmark converts with GFM extensions and highlighted code blocks. Raw
// HTML in the source is passed through untouched. A Goldmark is safe for
// concurrent use.
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark builds a converter. style names a chroma highlighting style;
// empty disables highlighting.
func NewGoldmark(style string) *Goldmark {
	exts := []goldmark.Extender{extension.GFM}
	if style != "" {
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(style),
		))
	}

	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
	}
}

// Convert renders markdown to an HTML fragment.
func (g *Goldmark) Convert(markdown []byte) (string, error) {
	var buf bytes.Buffer
	if err := g.md.Convert(markdown, &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrConvert, err)
	}
	return buf.String(), nil
}
