package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".filmguide.yml"

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: FILMGUIDE_GLOSSARY__REMOTE__URL sets glossary.remote.url.
const EnvPrefix = "FILMGUIDE_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (FILMGUIDE_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps FILMGUIDE_SERVER__PORT to server.port.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validSources is the set of recognized glossary source names.
var validSources = map[string]bool{
	SourceRemote: true,
	SourceSQLite: true,
	SourceCSV:    true,
	SourceXLSX:   true,
	SourceYAML:   true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.ContentDir == "" {
		return fmt.Errorf("content_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if filepath.Clean(c.ContentDir) == filepath.Clean(c.OutputDir) {
		return fmt.Errorf("output_dir must differ from content_dir")
	}

	if c.Selector != "" {
		if _, err := cascadia.Compile(c.Selector); err != nil {
			return fmt.Errorf("invalid selector %q: %w", c.Selector, err)
		}
	}

	if c.Marker.Tag != "" && strings.ContainsAny(c.Marker.Tag, " <>/\"'=") {
		return fmt.Errorf("invalid marker tag %q", c.Marker.Tag)
	}
	if c.Marker.Class != "" && strings.ContainsAny(c.Marker.Class, " \t\n") {
		return fmt.Errorf("marker class %q must be a single class name", c.Marker.Class)
	}

	for _, s := range c.Glossary.Sources {
		if !validSources[s] {
			return fmt.Errorf("invalid glossary source %q: must be one of remote, sqlite, csv, xlsx, yaml", s)
		}
	}
	if c.Glossary.TimeoutSeconds < 0 {
		return fmt.Errorf("glossary.timeout_seconds must be non-negative")
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be non-negative")
	}

	return nil
}

// FilmsPath returns the film catalog path, resolved against ContentDir
// when relative.
func (c *Config) FilmsPath() string {
	if c.FilmsFile == "" || filepath.IsAbs(c.FilmsFile) {
		return c.FilmsFile
	}
	return filepath.Join(c.ContentDir, c.FilmsFile)
}
