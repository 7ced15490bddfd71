package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
)

// contentLayouts maps marker paths to a recognised content layout and the
// content directory it implies.
var contentLayouts = []struct {
	Marker     string
	Name       string
	ContentDir string
}{
	{Marker: "content", Name: "content directory", ContentDir: "content"},
	{Marker: "pages", Name: "pages directory", ContentDir: "pages"},
	{Marker: "index.html", Name: "static HTML site", ContentDir: "."},
	{Marker: "*.md", Name: "markdown in project root", ContentDir: "."},
}

// detectContentDir checks the current directory for a known content layout.
func detectContentDir() (name string, dir string) {
	for _, l := range contentLayouts {
		matches, _ := filepath.Glob(l.Marker)
		if len(matches) > 0 {
			return l.Name, l.ContentDir
		}
	}
	return "", "content"
}

// detectGlossaryCSV returns the first glossary CSV found in the usual places.
func detectGlossaryCSV() string {
	for _, p := range []string{"local_files/glossary.csv", "glossary.csv", "data/glossary.csv"} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return DefaultConfig().Glossary.CSV
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .filmguide.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to filmguide! Let's configure your companion site.")
	fmt.Println()

	layout, defaultContent := detectContentDir()
	if layout != "" {
		fmt.Printf("Detected layout: %s\n\n", layout)
	}

	cfg := DefaultConfig()

	// 1. Site title.
	namePrompt := promptui.Prompt{
		Label:   "Site title",
		Default: cfg.ProjectName,
	}
	name, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site title: %w", err)
	}
	cfg.ProjectName = name

	// 2. Content and output directories.
	contentPrompt := promptui.Prompt{
		Label:   "Content directory",
		Default: defaultContent,
	}
	if cfg.ContentDir, err = contentPrompt.Run(); err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}

	outputPrompt := promptui.Prompt{
		Label:   "Output directory for the built site",
		Default: cfg.OutputDir,
		Validate: func(s string) error {
			if filepath.Clean(s) == filepath.Clean(cfg.ContentDir) {
				return fmt.Errorf("must differ from the content directory")
			}
			return nil
		},
	}
	if cfg.OutputDir, err = outputPrompt.Run(); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	// 3. Glossary source.
	sourcePrompt := promptui.Select{
		Label: "Where is the glossary kept?",
		Items: []string{
			"remote table with CSV fallback",
			"CSV file only",
			"local SQLite database",
			"YAML file",
		},
	}
	sourceIdx, _, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("glossary source: %w", err)
	}

	switch sourceIdx {
	case 0:
		urlPrompt := promptui.Prompt{Label: "Remote project URL (https://<project>.supabase.co)"}
		url, err := urlPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("remote url: %w", err)
		}
		cfg.Glossary.Remote.URL = strings.TrimSpace(url)
		cfg.Glossary.Sources = []string{SourceRemote, SourceCSV}
	case 1:
		cfg.Glossary.Sources = []string{SourceCSV}
	case 2:
		cfg.Glossary.Sources = []string{SourceSQLite, SourceCSV}
	case 3:
		cfg.Glossary.YAML = "glossary.yml"
		cfg.Glossary.Sources = []string{SourceYAML}
	}

	if sourceIdx <= 2 {
		csvPrompt := promptui.Prompt{
			Label:   "Glossary CSV path",
			Default: detectGlossaryCSV(),
		}
		if cfg.Glossary.CSV, err = csvPrompt.Run(); err != nil {
			return nil, fmt.Errorf("csv path: %w", err)
		}
	}

	if sourceIdx == 0 && os.Getenv(cfg.Glossary.Remote.APIKeyEnv) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running filmguide build.\n", cfg.Glossary.Remote.APIKeyEnv)
	}

	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}
