package sources

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ziadkadry99/filmguide/internal/glossary"
)

type stubSource struct {
	name  string
	res   Result
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Load(context.Context) (Result, error) {
	s.calls++
	s.res.Source = s.name
	return s.res, s.err
}

func TestLoaderFallsBack(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	remote := &stubSource{name: "remote", err: errors.New("connection refused")}
	empty := &stubSource{name: "empty"}
	csv := &stubSource{name: "csv", res: Result{
		Entries: []glossary.Entry{{Term: "noir", Definition: "style"}},
		Skipped: 2,
	}}
	never := &stubSource{name: "never"}

	res, err := NewLoader(zap.New(core), remote, empty, csv, never).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Source != "csv" || len(res.Entries) != 1 {
		t.Errorf("result = %+v", res)
	}
	if never.calls != 0 {
		t.Error("sources after the winning one must not be loaded")
	}
	if n := logs.FilterMessage("glossary source failed, trying next").Len(); n != 2 {
		t.Errorf("logged %d source failures, want 2", n)
	}
	if n := logs.FilterMessage("skipped malformed glossary rows").Len(); n != 1 {
		t.Errorf("logged %d skip warnings, want 1", n)
	}
}

func TestLoaderAllFail(t *testing.T) {
	loader := NewLoader(nil,
		&stubSource{name: "remote", err: errors.New("timeout")},
		NewCSVSource(filepath.Join(t.TempDir(), "missing.csv")),
	)

	_, err := loader.Load(context.Background())
	if !errors.Is(err, ErrFallbackUnavailable) {
		t.Fatalf("err = %v, want ErrFallbackUnavailable", err)
	}
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("err = %v should also wrap ErrSourceUnavailable", err)
	}

	idx, _ := loader.LoadIndex(context.Background())
	if idx.Len() != 0 {
		t.Errorf("LoadIndex after total failure: Len = %d, want 0", idx.Len())
	}
}

func TestLoaderNoSources(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background())
	if !errors.Is(err, ErrFallbackUnavailable) {
		t.Errorf("err = %v, want ErrFallbackUnavailable", err)
	}
}

func TestLoaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &stubSource{name: "remote"}
	if _, err := NewLoader(nil, src).Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if src.calls != 0 {
		t.Error("cancelled loader should not call sources")
	}
}

func TestLoadIndex(t *testing.T) {
	src := &stubSource{name: "yaml", res: Result{Entries: []glossary.Entry{
		{Term: "horror", Definition: "genre"},
		{Term: "psychological horror", Definition: "subgenre"},
	}}}
	idx, res := NewLoader(nil, src).LoadIndex(context.Background())
	if idx.Len() != 2 || res.Source != "yaml" {
		t.Fatalf("Len = %d, source = %q", idx.Len(), res.Source)
	}
	if idx.Entries()[0].Term != "psychological horror" {
		t.Errorf("index not longest-first: %v", idx.Entries())
	}
}
