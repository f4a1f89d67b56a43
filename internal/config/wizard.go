package config

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to docsite! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	namePrompt := promptui.Prompt{
		Label:   "Site name",
		Default: cfg.SiteName,
	}
	name, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site name: %w", err)
	}
	cfg.SiteName = name

	docsPrompt := promptui.Prompt{
		Label:   "Directory containing the Markdown documents",
		Default: cfg.DocsDir,
	}
	docsDir, err := docsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("docs dir: %w", err)
	}
	cfg.RebaseSections(cfg.DocsDir, docsDir)
	cfg.DocsDir = docsDir

	outputPrompt := promptui.Prompt{
		Label:   "Output directory for the generated site",
		Default: cfg.OutputDir,
	}
	outputDir, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	cfg.OutputDir = outputDir

	missingPrompt := promptui.Select{
		Label: "When a document cannot be loaded",
		Items: []string{
			"omit   - leave the section empty",
			"notice - show a short notice in its place",
		},
	}
	idx, _, err := missingPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("missing docs policy: %w", err)
	}
	cfg.MissingDocs = []MissingDocsPolicy{MissingOmit, MissingNotice}[idx]

	if _, err := os.Stat(cfg.DocsDir); os.IsNotExist(err) {
		fmt.Printf("\nNote: %s does not exist yet. Create it before running docsite build.\n", cfg.DocsDir)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
