package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Selector != ".main-content" {
		t.Errorf("expected default selector %q, got %q", ".main-content", cfg.Selector)
	}
	if cfg.OutputDir != "site" {
		t.Errorf("expected default output_dir %q, got %q", "site", cfg.OutputDir)
	}
	if diff := cmp.Diff([]string{SourceRemote, SourceCSV}, cfg.Glossary.Sources); diff != "" {
		t.Errorf("default sources mismatch (-want +got):\n%s", diff)
	}
	if cfg.Marker.Class != "glossary-term" {
		t.Errorf("expected default marker class, got %q", cfg.Marker.Class)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.filmguide.yml")

	original := DefaultConfig()
	original.ProjectName = "Midnight Movies"
	original.ContentDir = "pages"
	original.Include = []string{"films/**/*.md", "essays/**/*.html"}
	original.Glossary.Sources = []string{SourceSQLite, SourceYAML}
	original.Glossary.Remote.URL = "https://example.supabase.co"
	original.Marker.Tag = "abbr"
	original.Server.Port = 4000

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if diff := cmp.Diff(original, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yml")
	content := "project_name: Noir Nights\nmarker:\n  class: term\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ProjectName != "Noir Nights" {
		t.Errorf("project_name: got %q", cfg.ProjectName)
	}
	if cfg.Marker.Class != "term" || cfg.Marker.Tag != "span" {
		t.Errorf("marker: got %+v, want class override with default tag", cfg.Marker)
	}
	if cfg.Glossary.Remote.Table != "glossary" {
		t.Errorf("glossary.remote.table default lost: %q", cfg.Glossary.Remote.Table)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.ContentDir != "content" {
		t.Errorf("expected default content_dir, got %q", cfg.ContentDir)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("project_name: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("FILMGUIDE_OUTPUT_DIR", "public")
	t.Setenv("FILMGUIDE_SERVER__PORT", "9000")
	t.Setenv("FILMGUIDE_GLOSSARY__REMOTE__URL", "https://films.supabase.co")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.OutputDir != "public" {
		t.Errorf("output_dir override failed: got %q", loaded.OutputDir)
	}
	if loaded.Server.Port != 9000 {
		t.Errorf("server.port override failed: got %d", loaded.Server.Port)
	}
	if loaded.Glossary.Remote.URL != "https://films.supabase.co" {
		t.Errorf("glossary.remote.url override failed: got %q", loaded.Glossary.Remote.URL)
	}
}

func TestRemoteAPIKey(t *testing.T) {
	t.Setenv("TEST_GLOSSARY_KEY", "secret")
	r := RemoteConfig{APIKeyEnv: "TEST_GLOSSARY_KEY"}
	if got := r.APIKey(); got != "secret" {
		t.Errorf("APIKey() = %q", got)
	}
	if got := (RemoteConfig{}).APIKey(); got != "" {
		t.Errorf("APIKey() without env name = %q", got)
	}
}

func TestFilmsPath(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.FilmsPath(); got != filepath.Join("content", "films.yml") {
		t.Errorf("FilmsPath() = %q", got)
	}
	cfg.FilmsFile = "/abs/films.yml"
	if got := cfg.FilmsPath(); got != "/abs/films.yml" {
		t.Errorf("FilmsPath() absolute = %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty selector scans whole page", mutate: func(c *Config) { c.Selector = "" }},
		{name: "empty content dir", mutate: func(c *Config) { c.ContentDir = "" }, wantErr: true},
		{name: "empty output dir", mutate: func(c *Config) { c.OutputDir = "" }, wantErr: true},
		{name: "output equals content", mutate: func(c *Config) { c.OutputDir = "./content" }, wantErr: true},
		{name: "bad selector", mutate: func(c *Config) { c.Selector = "main[" }, wantErr: true},
		{name: "bad marker tag", mutate: func(c *Config) { c.Marker.Tag = "span class" }, wantErr: true},
		{name: "multi-word marker class", mutate: func(c *Config) { c.Marker.Class = "a b" }, wantErr: true},
		{name: "unknown source", mutate: func(c *Config) { c.Glossary.Sources = []string{"ftp"} }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.Glossary.TimeoutSeconds = -1 }, wantErr: true},
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "negative concurrency", mutate: func(c *Config) { c.MaxConcurrency = -1 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"FILMGUIDE_OUTPUT_DIR":            "output_dir",
		"FILMGUIDE_SERVER__PORT":          "server.port",
		"FILMGUIDE_GLOSSARY__REMOTE__URL": "glossary.remote.url",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}
