package config

// MissingDocsPolicy controls what a placeholder shows when its document
// could not be loaded.
type MissingDocsPolicy string

const (
	// MissingOmit leaves the placeholder empty.
	MissingOmit MissingDocsPolicy = "omit"
	// MissingNotice renders a short visible notice naming the document.
	MissingNotice MissingDocsPolicy = "notice"
)

// Config is the top-level docsite configuration, corresponding to .docsite.yml.
// Section URLs, DocsDir and AssetsDir are resolved against Root.
type Config struct {
	SiteName       string            `yaml:"site_name" koanf:"site_name"`
	Description    string            `yaml:"description" koanf:"description"`
	Author         string            `yaml:"author" koanf:"author"`
	Lead           string            `yaml:"lead" koanf:"lead"`
	Logo           string            `yaml:"logo" koanf:"logo"`
	Root           string            `yaml:"root" koanf:"root"`
	DocsDir        string            `yaml:"docs_dir" koanf:"docs_dir"`
	AssetsDir      string            `yaml:"assets_dir" koanf:"assets_dir"`
	OutputDir      string            `yaml:"output_dir" koanf:"output_dir"`
	BaseURL        string            `yaml:"base_url" koanf:"base_url"`
	MissingDocs    MissingDocsPolicy `yaml:"missing_docs" koanf:"missing_docs"`
	MaxConcurrency int               `yaml:"max_concurrency" koanf:"max_concurrency"`
	FetchTimeout   string            `yaml:"fetch_timeout" koanf:"fetch_timeout"`
	Highlight      string            `yaml:"highlight_style" koanf:"highlight_style"`
	AssetExclude   []string          `yaml:"asset_exclude" koanf:"asset_exclude"`
	Groups         []Group           `yaml:"groups" koanf:"groups"`
	Features       []Feature         `yaml:"features" koanf:"features"`
	Downloads      string            `yaml:"downloads" koanf:"downloads"`
	Community      []Link            `yaml:"community" koanf:"community"`
	Server         ServerConfig      `yaml:"server" koanf:"server"`
	Watch          WatchConfig       `yaml:"watch" koanf:"watch"`
}

// Group is an anchored block of the documentation page. Sections render in
// the order listed.
type Group struct {
	Anchor   string    `yaml:"anchor" koanf:"anchor"`
	Title    string    `yaml:"title" koanf:"title"`
	Label    string    `yaml:"label" koanf:"label"` // navigation menu entry; defaults to Title
	Sections []Section `yaml:"sections" koanf:"sections"`
}

// Section binds a placeholder element id to the Markdown document that fills it.
type Section struct {
	ID  string `yaml:"id" koanf:"id"`
	URL string `yaml:"url" koanf:"url"`
}

// Feature is one row on the index page.
type Feature struct {
	Header string `yaml:"header" koanf:"header"`
	Body   string `yaml:"body" koanf:"body"`
	Image  string `yaml:"image" koanf:"image"`
}

// Link is a labelled external link in the navigation bar.
type Link struct {
	Label string `yaml:"label" koanf:"label"`
	URL   string `yaml:"url" koanf:"url"`
}

// ServerConfig holds dev-server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all" koanf:"allow_all"`
}

// WatchConfig holds file watcher settings.
type WatchConfig struct {
	Debounce string `yaml:"debounce" koanf:"debounce"`
}
