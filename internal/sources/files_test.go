package sources

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ziadkadry99/filmguide/internal/glossary"
)

func TestYAMLSource(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "glossary.yml", `terms:
  - term: mise-en-scène
    definition: Everything placed before the camera.
    wikipedia_url: https://en.wikipedia.org/wiki/Mise-en-sc%C3%A8ne
  - term: jump cut
    definition: An abrupt cut within one shot.
  - term: orphan
`)

	res, err := NewYAMLSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []glossary.Entry{
		{Term: "mise-en-scène", Definition: "Everything placed before the camera.", ReferenceLink: "https://en.wikipedia.org/wiki/Mise-en-sc%C3%A8ne"},
		{Term: "jump cut", Definition: "An abrupt cut within one shot."},
	}
	if diff := cmp.Diff(want, res.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if res.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", res.Skipped)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yml")
	entries := []glossary.Entry{
		{Term: "anime", Definition: "Japanese animation: hand-drawn or CG."},
		{Term: "noir", Definition: "Crime style.", ReferenceLink: "https://en.wikipedia.org/wiki/Film_noir"},
	}
	if err := WriteYAML(path, entries); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	res, err := NewYAMLSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(entries, res.Entries); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glossary.xlsx")
	entries := []glossary.Entry{
		{Term: "dolly zoom", Definition: "Zoom while tracking the opposite way.", ReferenceLink: "https://en.wikipedia.org/wiki/Dolly_zoom"},
		{Term: "long take", Definition: "An uninterrupted shot."},
	}
	if err := WriteXLSX(path, entries); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	res, err := NewXLSXSource(path, "").Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(entries, res.Entries); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if res.Source != "xlsx:"+path {
		t.Errorf("Source = %q", res.Source)
	}
}

func TestXLSXSourceEmptyWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := WriteXLSX(path, nil); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	if _, err := NewXLSXSource(path, "").Load(context.Background()); !errors.Is(err, ErrNoRows) {
		t.Errorf("err = %v, want ErrNoRows", err)
	}
}

func TestXLSXSourceMissingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.xlsx")
	if err := WriteXLSX(path, []glossary.Entry{{Term: "a", Definition: "b"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := NewXLSXSource(path, "Nope").Load(context.Background()); err == nil {
		t.Error("expected error for unknown sheet")
	}
}
