package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/filmguide/internal/config"
	"github.com/ziadkadry99/filmguide/internal/db"
	"github.com/ziadkadry99/filmguide/internal/glossary"
	"github.com/ziadkadry99/filmguide/internal/progress"
	"github.com/ziadkadry99/filmguide/internal/site"
	"github.com/ziadkadry99/filmguide/internal/sources"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `filmguide init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// glossaryLoader wraps a sources.Loader with the configured timeout and
// owns the SQLite handle when the local store is one of the sources.
type glossaryLoader struct {
	loader  *sources.Loader
	timeout time.Duration
	db      *db.DB
}

// LoadIndex implements site.IndexLoader.
func (g *glossaryLoader) LoadIndex(ctx context.Context) (*glossary.Index, sources.Result) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return g.loader.LoadIndex(ctx)
}

func (g *glossaryLoader) Close() error {
	if g.db == nil {
		return nil
	}
	return g.db.Close()
}

// newGlossaryLoader builds the fallback chain from glossary.sources.
// Sources that are listed but not configured are left out.
func newGlossaryLoader(cfg *config.Config) (*glossaryLoader, error) {
	gl := &glossaryLoader{timeout: time.Duration(cfg.Glossary.TimeoutSeconds) * time.Second}

	var srcs []sources.Source
	for _, name := range cfg.Glossary.Sources {
		switch name {
		case config.SourceRemote:
			if cfg.Glossary.Remote.URL == "" {
				logger.Debug("remote glossary not configured, skipping")
				continue
			}
			srcs = append(srcs, sources.NewRemoteSource(sources.RemoteConfig{
				URL:    cfg.Glossary.Remote.URL,
				Table:  cfg.Glossary.Remote.Table,
				APIKey: cfg.Glossary.Remote.APIKey(),
			}))
		case config.SourceSQLite:
			if !fileExists(cfg.Glossary.Database) {
				logger.Debug("glossary database not found, skipping", zap.String("path", cfg.Glossary.Database))
				continue
			}
			if gl.db == nil {
				database, err := db.Open(cfg.Glossary.Database)
				if err != nil {
					return nil, err
				}
				gl.db = database
			}
			srcs = append(srcs, sources.NewStore(gl.db))
		case config.SourceCSV:
			if cfg.Glossary.CSV != "" {
				srcs = append(srcs, sources.NewCSVSource(cfg.Glossary.CSV))
			}
		case config.SourceXLSX:
			if cfg.Glossary.XLSX != "" {
				srcs = append(srcs, sources.NewXLSXSource(cfg.Glossary.XLSX, cfg.Glossary.XLSXSheet))
			}
		case config.SourceYAML:
			if cfg.Glossary.YAML != "" {
				srcs = append(srcs, sources.NewYAMLSource(cfg.Glossary.YAML))
			}
		}
	}

	gl.loader = sources.NewLoader(logger, srcs...)
	return gl, nil
}

// localGlossaryFiles returns the glossary files on disk that the preview
// server watches for changes.
func localGlossaryFiles(cfg *config.Config) []string {
	var files []string
	for _, name := range cfg.Glossary.Sources {
		var path string
		switch name {
		case config.SourceCSV:
			path = cfg.Glossary.CSV
		case config.SourceXLSX:
			path = cfg.Glossary.XLSX
		case config.SourceYAML:
			path = cfg.Glossary.YAML
		case config.SourceSQLite:
			path = cfg.Glossary.Database
		}
		if path == "" || isRemote(path) {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		files = append(files, path)
	}
	return files
}

// newGenerator creates a site generator from the config. A non-empty
// outputDir overrides output_dir.
func newGenerator(cfg *config.Config, loader site.IndexLoader, outputDir string, drafts, liveReload bool) (*site.Generator, error) {
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	gen, err := site.NewGenerator(site.Options{
		ContentDir:     cfg.ContentDir,
		OutputDir:      outputDir,
		ProjectName:    cfg.ProjectName,
		Logo:           cfg.Logo,
		FilmsFile:      cfg.FilmsPath(),
		Selector:       cfg.Selector,
		Include:        cfg.Include,
		Exclude:        cfg.Exclude,
		Marker:         cfg.Marker,
		MaxConcurrency: cfg.MaxConcurrency,
		IncludeDrafts:  drafts,
		LiveReload:     liveReload,
	}, loader, logger)
	if err != nil {
		return nil, err
	}
	if !verbose {
		gen.SetReporter(progress.NewReporter())
	}
	return gen, nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
