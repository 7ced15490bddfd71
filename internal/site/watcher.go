package site

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ziadkadry99/filmguide/internal/walker"
)

// Fingerprint digests every input of a build: the content pages and
// assets, the film catalog and any extra files.
func (g *Generator) Fingerprint(extra ...string) (string, error) {
	files, err := walker.Walk(walker.WalkerConfig{
		RootDir:       g.opts.ContentDir,
		Include:       g.opts.Include,
		Exclude:       g.opts.Exclude,
		IncludeDrafts: g.opts.IncludeDrafts,
		SkipDirs:      []string{g.opts.OutputDir},
	})
	if err != nil {
		return "", err
	}

	h := sha256.New()
	io.WriteString(h, walker.Fingerprint(files))
	for _, p := range append([]string{g.opts.FilmsFile}, extra...) {
		if p == "" {
			continue
		}
		io.WriteString(h, "\n"+p+"\x00")
		f, err := os.Open(p)
		if err != nil {
			io.WriteString(h, "missing")
			continue
		}
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Watcher rebuilds the site when its inputs change. Events are debounced
// and a rebuild only runs when the build fingerprint actually changed.
type Watcher struct {
	mu        sync.Mutex
	fsw       *fsnotify.Watcher
	gen       *Generator
	extra     []string
	outputDir string
	debounce  time.Duration
	onChange  func(context.Context)
	logger    *zap.Logger

	dirty       bool
	lastEvent   time.Time
	fingerprint string

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewWatcher creates a watcher over gen's content directory plus the
// directories holding extra files. onChange runs on the watcher goroutine.
func NewWatcher(gen *Generator, extra []string, debounce time.Duration, logger *zap.Logger, onChange func(context.Context)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	out, _ := filepath.Abs(gen.Options().OutputDir)
	return &Watcher{
		fsw:       fsw,
		gen:       gen,
		extra:     extra,
		outputDir: out,
		debounce:  debounce,
		onChange:  onChange,
		logger:    logger,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}, nil
}

// Start registers the watched directories and runs the event loop in a
// goroutine. It returns immediately.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	opts := w.gen.Options()
	if err := w.addTree(opts.ContentDir); err != nil {
		return err
	}
	for _, p := range append([]string{opts.FilmsFile}, w.extra...) {
		if p == "" {
			continue
		}
		dir := filepath.Dir(p)
		if err := w.fsw.Add(dir); err != nil {
			w.logger.Warn("cannot watch directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	fp, err := w.gen.Fingerprint(w.extra...)
	if err != nil {
		w.logger.Warn("initial fingerprint failed", zap.Error(err))
	}
	w.fingerprint = fp

	w.logger.Info("watching for changes", zap.String("content", opts.ContentDir))
	go w.run(ctx)
	return nil
}

// Stop ends the event loop and releases the fsnotify watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.fsw.Close(); err != nil {
		w.logger.Warn("closing watcher", zap.Error(err))
	}
}

// addTree watches root and every directory below it except the output
// directory and the walker's excluded names.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if w.ignored(path) || (path != root && isExcludedDir(d.Name())) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("cannot watch directory", zap.String("dir", path), zap.Error(err))
		}
		return nil
	})
}

func (w *Watcher) ignored(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return abs == w.outputDir || strings.HasPrefix(abs, w.outputDir+string(filepath.Separator))
}

func isExcludedDir(name string) bool {
	for _, excl := range walker.DefaultExcludes {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod || w.ignored(event.Name) {
		return
	}
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addTree(event.Name)
		}
	}
	w.logger.Debug("change detected", zap.String("path", event.Name), zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.dirty = true
	w.lastEvent = time.Now()
	w.mu.Unlock()
}

// flush rebuilds once events have been quiet for the debounce interval.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	ready := w.dirty && time.Since(w.lastEvent) >= w.debounce
	if ready {
		w.dirty = false
	}
	w.mu.Unlock()
	if !ready {
		return
	}

	fp, err := w.gen.Fingerprint(w.extra...)
	if err != nil {
		w.logger.Warn("fingerprint failed", zap.Error(err))
		return
	}
	if fp == w.fingerprint {
		w.logger.Debug("no effective change, skipping rebuild")
		return
	}
	w.fingerprint = fp
	w.onChange(ctx)
}
