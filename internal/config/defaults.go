package config

import "github.com/ziadkadry99/filmguide/internal/glossary"

// DefaultExcludes are glob patterns never treated as content pages.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"_drafts/**",
	"**/.*",
	"**/*.tmp",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ProjectName: "Film Companion Guide",
		ContentDir:  "content",
		OutputDir:   "site",
		FilmsFile:   "films.yml",
		Include:     []string{"**/*.md", "**/*.html"},
		Exclude:     append([]string(nil), DefaultExcludes...),
		Selector:    glossary.DefaultSelector,
		Marker:      glossary.DefaultMarkerConfig(),
		Glossary: GlossaryConfig{
			Sources: []string{SourceRemote, SourceCSV},
			Remote: RemoteConfig{
				Table:     "glossary",
				APIKeyEnv: "SUPABASE_ANON_KEY",
			},
			CSV:            "local_files/glossary.csv",
			Database:       ".filmguide/glossary.db",
			TimeoutSeconds: 30,
		},
		Server: ServerConfig{
			Port:  8080,
			Watch: true,
		},
		MaxConcurrency: 8,
	}
}
