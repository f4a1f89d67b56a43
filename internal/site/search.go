package site

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/docsite/internal/docs"
)

// maxSearchContent caps the text stored per entry.
const maxSearchContent = 2000

// SearchEntry represents a single searchable documentation section.
type SearchEntry struct {
	Path    string `json:"path"`
	Section string `json:"section"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}

// BuildSearchIndex builds one entry per successfully loaded section.
func BuildSearchIndex(results []docs.Result) []SearchEntry {
	entries := make([]SearchEntry, 0, len(results))
	for _, r := range results {
		if !r.OK() {
			continue
		}
		entry := parseHTMLForSearch(r.HTML)
		entry.Path = "documentation.html#" + r.Section.ID
		entry.Section = r.Section.ID
		if r.Meta.Title != "" {
			entry.Title = r.Meta.Title
		}
		if entry.Title == "" {
			entry.Title = r.Section.ID
		}
		entries = append(entries, entry)
	}
	return entries
}

// parseHTMLForSearch extracts the first heading, the first paragraph and
// the flattened text of a rendered section.
func parseHTMLForSearch(fragment string) SearchEntry {
	var entry SearchEntry
	var all, current strings.Builder
	var inHeading, inParagraph, skip bool

	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			entry.Content = truncate(collapseSpace(all.String()), maxSearchContent)
			return entry
		case html.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "h1", "h2", "h3":
				if entry.Title == "" {
					inHeading = true
					current.Reset()
				}
			case "p":
				if entry.Summary == "" {
					inParagraph = true
					current.Reset()
				}
			case "script", "style":
				skip = true
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "h1", "h2", "h3":
				if inHeading {
					entry.Title = collapseSpace(current.String())
					inHeading = false
				}
			case "p":
				if inParagraph {
					entry.Summary = collapseSpace(current.String())
					inParagraph = false
				}
			case "script", "style":
				skip = false
			}
		case html.TextToken:
			if skip {
				continue
			}
			text := string(z.Text())
			all.WriteString(text)
			all.WriteByte(' ')
			if inHeading || inParagraph {
				current.WriteString(text)
			}
		}
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// WriteSearchIndex writes the search index as JSON to the given path.
func WriteSearchIndex(entries []SearchEntry, outputPath string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}

// Search returns up to limit entries matching every term of query,
// case-insensitively. Title matches rank above body matches.
func Search(entries []SearchEntry, query string, limit int) []SearchEntry {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil
	}

	type scored struct {
		entry SearchEntry
		score int
	}
	var hits []scored
	for _, e := range entries {
		title := strings.ToLower(e.Title)
		body := strings.ToLower(e.Summary + " " + e.Content)
		score := 0
		matched := true
		for _, term := range terms {
			inTitle := strings.Contains(title, term)
			inBody := strings.Contains(body, term)
			if !inTitle && !inBody {
				matched = false
				break
			}
			if inTitle {
				score += 10
			}
			score += strings.Count(body, term)
		}
		if matched {
			hits = append(hits, scored{entry: e, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]SearchEntry, len(hits))
	for i, h := range hits {
		out[i] = h.entry
	}
	return out
}
