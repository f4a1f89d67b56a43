package config

import "time"

// DefaultExcludes are asset glob patterns never copied into the output.
var DefaultExcludes = []string{
	"**/.DS_Store",
	"**/*.psd",
	"**/*.xcf",
	"**/Thumbs.db",
}

// DefaultGroups reproduces the documentation page of the Concierge website.
func DefaultGroups() []Group {
	return []Group{
		{
			Anchor: "basic",
			Title:  "1. Running and embedding Concierge",
			Label:  "Getting Started",
			Sections: []Section{
				{ID: "gs", URL: "docs/getting-started.md"},
				{ID: "cli", URL: "docs/concierge-commandline.md"},
				{ID: "bnd", URL: "docs/concierge-bndtools.md"},
				{ID: "embedding", URL: "docs/concierge-embedding.md"},
			},
		},
		{
			Anchor: "options",
			Title:  "2. Advanced options",
			Label:  "Advanced options",
			Sections: []Section{
				{ID: "options-concierge", URL: "docs/options-concierge.md"},
				{ID: "options-osgi", URL: "docs/options-osgi.md"},
				{ID: "bundles", URL: "docs/concierge-bundles.md"},
			},
		},
		{
			Anchor: "develop",
			Title:  "3. Building and contributing",
			Label:  "Building and contributing",
			Sections: []Section{
				{ID: "build", URL: "docs/contributor/build-concierge.md"},
				{ID: "contribute", URL: "docs/contributor/contribute.md"},
			},
		},
	}
}

// DefaultFeatures are the feature rows of the index page.
func DefaultFeatures() []Feature {
	return []Feature{
		{
			Header: "OSGi for mobile and embedded devices",
			Body:   "Concierge brings OSGi to your mobile and embedded devices such as the Raspberry Pi and Beaglebone black. Concierge also has support for running on Android's Dalvik VM.",
			Image:  "images/raspberry.png",
		},
		{
			Header: "Small footprint implementation",
			Body:   "With a .jar size of around 250kb, Concierge is the smallest OSGi R5 implementation around. This results in a fast startup time and an efficient service registry. Also, the framework runs on current and upcoming Java embedded profiles (e.g. Java 8 compact profile).",
			Image:  "images/footprint.png",
		},
		{
			Header: "OSGi R5",
			Body:   "Concierge implements the [OSGi R5](http://www.osgi.org/Release5/HomePage) APIs. We strictly adhere the OSGi Core specification, and omit any optional services to keep our low footprint. If needed, some extra services can be installed as separate bundles.",
			Image:  "images/osgi.png",
		},
	}
}

// DefaultCommunity are the links of the Community menu.
func DefaultCommunity() []Link {
	return []Link{
		{Label: "Mailing List", URL: "https://dev.eclipse.org/mailman/listinfo/concierge-dev"},
		{Label: "Issue Tracker", URL: "https://github.com/eclipse/concierge/issues"},
		{Label: "Source Code", URL: "https://github.com/eclipse/concierge"},
		{Label: "Continuous Integration", URL: "https://hudson.eclipse.org/concierge"},
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SiteName:       "Concierge",
		Description:    "Concierge - A small-footprint implementation of the OSGi Core R5 Specification",
		Author:         "Tim Verbelen",
		Lead:           "Concierge is a small-footprint implementation of the OSGi Core Specification R5 standard optimized for mobile and embedded devices.",
		Logo:           "images/logo.png",
		Root:           ".",
		DocsDir:        "docs",
		AssetsDir:      "static",
		OutputDir:      "public",
		MissingDocs:    MissingOmit,
		MaxConcurrency: 8,
		FetchTimeout:   "10s",
		Highlight:      "github",
		AssetExclude:   DefaultExcludes,
		Groups:         DefaultGroups(),
		Features:       DefaultFeatures(),
		Downloads:      "https://projects.eclipse.org/projects/rt.concierge/downloads",
		Community:      DefaultCommunity(),
		Server: ServerConfig{
			Port: 8080,
		},
		Watch: WatchConfig{
			Debounce: "300ms",
		},
	}
}

// GetFetchTimeout returns the per-document fetch timeout, falling back to
// 10s when unset or unparseable.
func (c *Config) GetFetchTimeout() time.Duration {
	return parseDurationOr(c.FetchTimeout, 10*time.Second)
}

// GetDebounce returns the watcher debounce delay.
func (c *Config) GetDebounce() time.Duration {
	return parseDurationOr(c.Watch.Debounce, 300*time.Millisecond)
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
