package site

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFingerprint(t *testing.T) {
	gen, _ := newTestGenerator(t, map[string]string{"index.md": "# Home\n"}, nil)
	extra := filepath.Join(t.TempDir(), "glossary.csv")

	first, err := gen.Fingerprint(extra)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	again, _ := gen.Fingerprint(extra)
	if first != again {
		t.Error("fingerprint is not stable")
	}

	if err := os.WriteFile(extra, []byte("term,definition\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	withExtra, _ := gen.Fingerprint(extra)
	if withExtra == first {
		t.Error("creating an extra file did not change the fingerprint")
	}

	writeContent(t, gen.Options().ContentDir, map[string]string{"index.md": "# Changed\n"})
	changed, _ := gen.Fingerprint(extra)
	if changed == withExtra {
		t.Error("editing a page did not change the fingerprint")
	}
}

func TestFingerprintIgnoresOutput(t *testing.T) {
	content := t.TempDir()
	writeContent(t, content, map[string]string{"index.md": "# Home\n"})
	gen, err := NewGenerator(Options{
		ContentDir: content,
		OutputDir:  filepath.Join(content, "site"),
	}, FixedIndex(nil), nil)
	if err != nil {
		t.Fatal(err)
	}

	before, _ := gen.Fingerprint()
	if _, err := gen.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	after, _ := gen.Fingerprint()
	if before != after {
		t.Error("building into the content dir changed the fingerprint")
	}
}

func TestWatcherRebuildsOnChange(t *testing.T) {
	gen, _ := newTestGenerator(t, map[string]string{"index.md": "# Home\n"}, nil)

	changes := make(chan struct{}, 4)
	w, err := NewWatcher(gen, nil, 20*time.Millisecond, nil, func(context.Context) {
		changes <- struct{}{}
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	writeContent(t, gen.Options().ContentDir, map[string]string{"essays/new.md": "# New\n"})

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after adding a page")
	}
}

func TestWatcherSkipsUnchangedContent(t *testing.T) {
	gen, _ := newTestGenerator(t, map[string]string{"index.md": "# Home\n"}, nil)

	changes := make(chan struct{}, 4)
	w, err := NewWatcher(gen, nil, 20*time.Millisecond, nil, func(context.Context) {
		changes <- struct{}{}
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	// Rewriting identical bytes and touching an ignored file are no-ops.
	writeContent(t, gen.Options().ContentDir, map[string]string{
		"index.md":  "# Home\n",
		"notes.txt": "scratch",
	})

	select {
	case <-changes:
		t.Fatal("rebuild triggered without an effective change")
	case <-time.After(500 * time.Millisecond):
	}
}
