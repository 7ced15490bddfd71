package site

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/ziadkadry99/filmguide/internal/glossary"
)

func TestSearchEntryFromHTML(t *testing.T) {
	src := `<html><head><title>t</title></head><body>
<nav>Navigation text</nav>
<main class="main-content">
  <h1>Lighting</h1>
  <p>   </p>
  <p>Low-key   lighting
  defines noir.</p>
  <script>var hidden = 1;</script>
  <p>Second paragraph.</p>
</main></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	e := searchEntryFromHTML("essays/noir.html", "Lighting", "page", doc, ".main-content")

	if e.Summary != "Low-key lighting defines noir." {
		t.Errorf("Summary = %q", e.Summary)
	}
	if e.Content != "Lighting Low-key lighting defines noir. Second paragraph." {
		t.Errorf("Content = %q", e.Content)
	}
	if strings.Contains(e.Content, "Navigation") || strings.Contains(e.Content, "hidden") {
		t.Errorf("Content leaked text outside prose: %q", e.Content)
	}
	if doc.Find("script").Length() != 1 {
		t.Error("extraction modified the document")
	}
}

func TestSearchEntryFallbacks(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<body><div>` + strings.Repeat("é", 1500) + `</div></body>`))
	if err != nil {
		t.Fatal(err)
	}

	// Selector matches nothing: the whole document is used.
	e := searchEntryFromHTML("raw.html", "", "page", doc, ".main-content")
	if e.Title != "raw.html" {
		t.Errorf("Title = %q, want the path", e.Title)
	}
	if len(e.Content) > maxSearchContent || !strings.HasPrefix(e.Content, "é") {
		t.Errorf("Content length = %d", len(e.Content))
	}
	if !utf8.ValidString(e.Content) {
		t.Error("truncation split a rune")
	}
}

func TestTruncateUTF8(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"abc", 5, "abc"},
		{"abc", 3, "abc"},
		{"", 4, ""},
		{"é", 1, ""},
		{"abcdef", 3, "abc"},
		{"aé", 2, "a"},
		{"aéb", 3, "aé"},
	}
	for _, tt := range tests {
		if got := truncateUTF8(tt.in, tt.n); got != tt.want {
			t.Errorf("truncateUTF8(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestGlossarySearchEntries(t *testing.T) {
	got := glossarySearchEntries([]glossary.Entry{{Term: "Film Noir", Definition: "Crime dramas."}})
	if len(got) != 1 {
		t.Fatalf("entries = %d", len(got))
	}
	if got[0].Path != "glossary.html#term-film-noir" || got[0].Kind != "term" || got[0].Summary != "Crime dramas." {
		t.Errorf("entry = %+v", got[0])
	}
}

func TestWriteSearchIndexSorted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search-index.json")
	entries := []SearchEntry{{Path: "z.html"}, {Path: "a.html"}}
	if err := WriteSearchIndex(entries, path); err != nil {
		t.Fatalf("WriteSearchIndex: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got []SearchEntry
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got[0].Path != "a.html" || got[1].Path != "z.html" {
		t.Errorf("order = %v", got)
	}
}
