package docs

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
)

// Meta is the optional front matter block at the top of a document.
type Meta struct {
	Title string `yaml:"title" toml:"title" json:"title"`
	Draft bool   `yaml:"draft" toml:"draft" json:"draft"`
}

// splitFrontMatter separates front matter from the Markdown body. Documents
// without front matter come back unchanged with a zero Meta.
func splitFrontMatter(source []byte) (Meta, []byte, error) {
	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return Meta{}, nil, fmt.Errorf("%w: front matter: %v", ErrConvert, err)
	}
	return meta, body, nil
}
