package sources

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/filmguide/internal/glossary"
)

// yamlFile is the on-disk layout of a YAML glossary.
type yamlFile struct {
	Terms []glossary.Entry `yaml:"terms"`
}

// YAMLSource reads a glossary kept as a YAML file next to the content.
type YAMLSource struct {
	path string
}

// NewYAMLSource creates a YAMLSource.
func NewYAMLSource(path string) *YAMLSource {
	return &YAMLSource{path: path}
}

// Name implements Source.
func (s *YAMLSource) Name() string {
	return "yaml:" + s.path
}

// Load parses the file. Invalid entries are skipped and counted.
func (s *YAMLSource) Load(_ context.Context) (Result, error) {
	res := Result{Source: s.Name()}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return res, fmt.Errorf("reading glossary yaml: %w", err)
	}
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return res, fmt.Errorf("parsing glossary yaml: %w", err)
	}

	for _, e := range f.Terms {
		if !e.Valid() {
			res.Skipped++
			continue
		}
		res.Entries = append(res.Entries, e)
	}
	if len(res.Entries) == 0 {
		return res, ErrNoRows
	}
	return res, nil
}

// WriteYAML saves entries as a YAML glossary.
func WriteYAML(path string, entries []glossary.Entry) error {
	data, err := yaml.Marshal(yamlFile{Terms: entries})
	if err != nil {
		return fmt.Errorf("marshalling glossary: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
