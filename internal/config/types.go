package config

import (
	"os"

	"github.com/ziadkadry99/filmguide/internal/glossary"
)

// Glossary source names accepted in glossary.sources.
const (
	SourceRemote = "remote"
	SourceSQLite = "sqlite"
	SourceCSV    = "csv"
	SourceXLSX   = "xlsx"
	SourceYAML   = "yaml"
)

// Config is the top-level filmguide configuration, corresponding to .filmguide.yml.
type Config struct {
	ProjectName    string                `yaml:"project_name" koanf:"project_name"`
	ContentDir     string                `yaml:"content_dir" koanf:"content_dir"`
	OutputDir      string                `yaml:"output_dir" koanf:"output_dir"`
	FilmsFile      string                `yaml:"films_file" koanf:"films_file"`
	Logo           string                `yaml:"logo" koanf:"logo"`
	Include        []string              `yaml:"include" koanf:"include"`
	Exclude        []string              `yaml:"exclude" koanf:"exclude"`
	Selector       string                `yaml:"selector" koanf:"selector"`
	Marker         glossary.MarkerConfig `yaml:"marker" koanf:"marker"`
	Glossary       GlossaryConfig        `yaml:"glossary" koanf:"glossary"`
	Server         ServerConfig          `yaml:"server" koanf:"server"`
	MaxConcurrency int                   `yaml:"max_concurrency" koanf:"max_concurrency"`
}

// GlossaryConfig lists where glossary entries come from. Sources are tried
// in order; the first that yields entries wins.
type GlossaryConfig struct {
	Sources        []string     `yaml:"sources" koanf:"sources"`
	Remote         RemoteConfig `yaml:"remote" koanf:"remote"`
	CSV            string       `yaml:"csv" koanf:"csv"`
	XLSX           string       `yaml:"xlsx" koanf:"xlsx"`
	XLSXSheet      string       `yaml:"xlsx_sheet" koanf:"xlsx_sheet"`
	YAML           string       `yaml:"yaml" koanf:"yaml"`
	Database       string       `yaml:"database" koanf:"database"`
	TimeoutSeconds int          `yaml:"timeout_seconds" koanf:"timeout_seconds"`
}

// RemoteConfig points at the hosted glossary table. The API key itself is
// never written to the config file; it is read from APIKeyEnv.
type RemoteConfig struct {
	URL       string `yaml:"url" koanf:"url"`
	Table     string `yaml:"table" koanf:"table"`
	APIKeyEnv string `yaml:"api_key_env" koanf:"api_key_env"`
}

// APIKey returns the remote API key from the environment.
func (r RemoteConfig) APIKey() string {
	if r.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(r.APIKeyEnv)
}

// ServerConfig holds preview server settings.
type ServerConfig struct {
	Port        int      `yaml:"port" koanf:"port"`
	Watch       bool     `yaml:"watch" koanf:"watch"`
	CORSOrigins []string `yaml:"cors_origins,omitempty" koanf:"cors_origins"`
}
