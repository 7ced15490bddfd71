package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadFilmsSample(t *testing.T) {
	c, err := LoadFilms(filepath.Join(sampleGuide(t), "films.yml"))
	if err != nil {
		t.Fatalf("LoadFilms: %v", err)
	}
	if len(c.Films) != 2 {
		t.Fatalf("films = %d, want 2", len(c.Films))
	}
	f := c.Films[0]
	if f.ID != "ghost-in-the-shell" || f.Year != 1995 || f.Director != "Mamoru Oshii" {
		t.Errorf("first film = %+v", f)
	}
	if len(f.Gallery) != 1 || f.Gallery[0].Caption != "The Major over the city" {
		t.Errorf("gallery = %+v", f.Gallery)
	}
	if len(f.Links) != 1 || f.Links[0].Text != "Production history" {
		t.Errorf("links = %+v", f.Links)
	}
	if f.PagePath() != "films/ghost-in-the-shell.html" {
		t.Errorf("PagePath = %q", f.PagePath())
	}
}

func TestLoadFilmsMissingFile(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "films.yml")} {
		c, err := LoadFilms(path)
		if err != nil {
			t.Fatalf("LoadFilms(%q): %v", path, err)
		}
		if len(c.Films) != 0 {
			t.Errorf("LoadFilms(%q) = %d films, want 0", path, len(c.Films))
		}
	}
}

func TestLoadFilmsDerivesID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "films.yml")
	if err := os.WriteFile(path, []byte("films:\n  - title: \"Night of the Hunter (1955)\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadFilms(path)
	if err != nil {
		t.Fatalf("LoadFilms: %v", err)
	}
	if got := c.Films[0].ID; got != "night-of-the-hunter-1955" {
		t.Errorf("ID = %q", got)
	}
}

func TestLoadFilmsErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "films: [", "parsing"},
		{"missing title", "films:\n  - id: x\n", "no title"},
		{"duplicate id", "films:\n  - title: A\n    id: a\n  - title: B\n    id: a\n", "duplicate"},
		{"invalid id", "films:\n  - title: A\n    id: Not Valid\n", "invalid id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "films.yml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFilms(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestCatalogSections(t *testing.T) {
	c := &Catalog{Films: []Film{
		{ID: "a", Title: "A", Section: "The System"},
		{ID: "b", Title: "B", Section: "The Self"},
		{ID: "c", Title: "C", Section: "The System"},
		{ID: "d", Title: "D"},
	}}

	var got [][]string
	for _, s := range c.Sections() {
		row := []string{s.Name, s.ID}
		for _, f := range s.Films {
			row = append(row, f.ID)
		}
		got = append(got, row)
	}
	want := [][]string{
		{"The System", "the-system", "a", "c"},
		{"The Self", "the-self", "b"},
		{"", "", "d"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sections mismatch (-want +got):\n%s", diff)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Ghost in the Shell", "ghost-in-the-shell"},
		{"  8½ (1963) ", "8-1963"},
		{"film-noir", "film-noir"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
