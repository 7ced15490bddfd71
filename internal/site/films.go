package site

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Film is one entry of the film catalog (films.yml).
type Film struct {
	ID       string  `yaml:"id" json:"id"`
	Title    string  `yaml:"title" json:"title"`
	Year     int     `yaml:"year,omitempty" json:"year,omitempty"`
	Director string  `yaml:"director,omitempty" json:"director,omitempty"`
	Section  string  `yaml:"section,omitempty" json:"section,omitempty"`
	Pairing  string  `yaml:"pairing,omitempty" json:"pairing,omitempty"`
	Summary  string  `yaml:"summary,omitempty" json:"summary,omitempty"`
	Poster   string  `yaml:"poster,omitempty" json:"poster,omitempty"`
	Gallery  []Image `yaml:"gallery,omitempty" json:"gallery,omitempty"`
	Links    []Link  `yaml:"links,omitempty" json:"links,omitempty"`
}

// Image is a poster or gallery still. Src is relative to the content
// directory or an absolute URL.
type Image struct {
	Src     string `yaml:"src" json:"src"`
	Caption string `yaml:"caption,omitempty" json:"caption,omitempty"`
}

// Link is a further-reading link.
type Link struct {
	Text string `yaml:"text" json:"text"`
	URL  string `yaml:"url" json:"url"`
}

// Catalog is the parsed film catalog.
type Catalog struct {
	Films []Film `yaml:"films"`
}

// LoadFilms reads the film catalog at path. A missing file is an empty
// catalog.
func LoadFilms(path string) (*Catalog, error) {
	if path == "" {
		return &Catalog{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Catalog{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading film catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing film catalog %s: %w", path, err)
	}
	for i := range c.Films {
		if c.Films[i].ID == "" {
			c.Films[i].ID = slugify(c.Films[i].Title)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("film catalog %s: %w", path, err)
	}
	return &c, nil
}

// Validate checks that every film has a title and a unique id.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Films))
	for i, f := range c.Films {
		if strings.TrimSpace(f.Title) == "" {
			return fmt.Errorf("film %d has no title", i+1)
		}
		if f.ID == "" || f.ID != slugify(f.ID) {
			return fmt.Errorf("film %q has invalid id %q", f.Title, f.ID)
		}
		if seen[f.ID] {
			return fmt.Errorf("duplicate film id %q", f.ID)
		}
		seen[f.ID] = true
	}
	return nil
}

// Sections groups films by Section, keeping catalog order. Films without a
// section are grouped under "".
func (c *Catalog) Sections() []FilmSection {
	var out []FilmSection
	pos := make(map[string]int)
	for _, f := range c.Films {
		i, ok := pos[f.Section]
		if !ok {
			i = len(out)
			pos[f.Section] = i
			out = append(out, FilmSection{Name: f.Section, ID: slugify(f.Section)})
		}
		out[i].Films = append(out[i].Films, f)
	}
	return out
}

// FilmSection is a titled group of films on the films index.
type FilmSection struct {
	Name  string
	ID    string
	Films []Film
}

// PagePath returns the film's page path relative to the site root.
func (f Film) PagePath() string {
	return "films/" + f.ID + ".html"
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases s and joins its alphanumeric runs with hyphens.
func slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
