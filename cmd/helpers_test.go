package cmd

import (
	"path/filepath"
	"testing"

	"github.com/ziadkadry99/docsite/internal/config"
	"github.com/ziadkadry99/docsite/internal/docs"
)

func TestCreateSource(t *testing.T) {
	cfg := config.DefaultConfig()
	src, err := createSource(cfg)
	if err != nil {
		t.Fatalf("createSource: %v", err)
	}
	if _, ok := src.(*docs.FileSource); !ok {
		t.Errorf("source = %T, want *docs.FileSource", src)
	}

	cfg.BaseURL = "https://www.eclipse.org/concierge/"
	src, err = createSource(cfg)
	if err != nil {
		t.Fatalf("createSource: %v", err)
	}
	if _, ok := src.(*docs.HTTPSource); !ok {
		t.Errorf("source = %T, want *docs.HTTPSource", src)
	}
}

func TestWatchDirs(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Root = "/srv/site"
	dirs := watchDirs(cfg)
	want := []string{filepath.Join("/srv/site", "docs"), filepath.Join("/srv/site", "static")}
	if len(dirs) != 2 || dirs[0] != want[0] || dirs[1] != want[1] {
		t.Errorf("watchDirs = %v, want %v", dirs, want)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	old := cfgFile
	t.Cleanup(func() { cfgFile = old })
	cfgFile = filepath.Join(t.TempDir(), ".docsite.yml")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if got := len(cfg.Sections()); got != 9 {
		t.Errorf("sections = %d, want 9", got)
	}
}
