package site

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ziadkadry99/filmguide/internal/glossary"
)

// maxSearchContent caps the indexed text per page.
const maxSearchContent = 2000

// SearchEntry is a single searchable page.
type SearchEntry struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
	Kind    string `json:"kind"`
}

// searchEntryFromHTML extracts the search entry for a rendered page body.
// Only text inside the highlight selector is indexed.
func searchEntryFromHTML(page, title, kind string, doc *goquery.Document, selector string) SearchEntry {
	region := doc.Selection
	if selector != "" {
		if sel := doc.Find(selector); sel.Length() > 0 {
			region = sel
		}
	}
	// Drop non-prose text before extracting.
	region = region.Clone()
	region.Find("script, style, noscript, template").Remove()

	entry := SearchEntry{Path: page, Title: title, Kind: kind}
	region.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if text := collapseSpace(s.Text()); text != "" {
			entry.Summary = text
			return false
		}
		return true
	})

	content := collapseSpace(region.Text())
	if len(content) > maxSearchContent {
		content = truncateUTF8(content, maxSearchContent)
	}
	entry.Content = content
	if entry.Title == "" {
		entry.Title = page
	}
	return entry
}

// glossarySearchEntries indexes each glossary term as its own result
// pointing at the glossary page anchor.
func glossarySearchEntries(entries []glossary.Entry) []SearchEntry {
	out := make([]SearchEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, SearchEntry{
			Path:    "glossary.html#" + termAnchor(e.Term),
			Title:   e.Term,
			Summary: e.Definition,
			Content: e.Definition,
			Kind:    "term",
		})
	}
	return out
}

// WriteSearchIndex writes the search index as JSON sorted by path.
func WriteSearchIndex(entries []SearchEntry, outputPath string) error {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if n >= len(s) {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}

// termAnchor is the id of a term on the glossary page.
func termAnchor(term string) string {
	return "term-" + slugify(term)
}
