package glossary

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Index is the ordered set of glossary entries prepared for matching.
// Entries are kept longest term first so that, on equal start offsets,
// "psychological horror" is preferred over "horror". An Index is read-only
// after BuildIndex returns and may be shared between goroutines.
type Index struct {
	terms  []indexedTerm
	lookup map[string]int
}

type indexedTerm struct {
	entry Entry
	re    *regexp.Regexp
	// The leading boundary is only checked for terms starting with a word
	// character.
	checkStart bool
}

// BuildIndex sorts entries by term length, longest first, preserving input
// order between terms of equal length. Duplicate terms are kept; entries
// with an empty term are dropped. An empty input yields an Index that
// matches nothing.
func BuildIndex(entries []Entry) *Index {
	idx := &Index{lookup: make(map[string]int)}

	sorted := make([]Entry, 0, len(entries))
	for _, e := range entries {
		e.Term = strings.TrimSpace(e.Term)
		if e.Term == "" {
			continue
		}
		sorted = append(sorted, e)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i].Term) > utf8.RuneCountInString(sorted[j].Term)
	})

	for _, e := range sorted {
		re, err := regexp.Compile(termPattern(e.Term))
		if err != nil {
			continue
		}
		first, _ := utf8.DecodeRuneInString(e.Term)
		idx.terms = append(idx.terms, indexedTerm{
			entry:      e,
			re:         re,
			checkStart: isWordRune(first),
		})
		if _, ok := idx.lookup[e.Key()]; !ok {
			idx.lookup[e.Key()] = len(idx.terms) - 1
		}
	}
	return idx
}

// termPattern builds a case-insensitive literal pattern for term with an
// optional plural suffix: "s", or "es" when the term does not already end
// in "s". Irregular plurals ("analysis"/"analyses") are not handled.
func termPattern(term string) string {
	suffix := `(?:es|s)?`
	if strings.HasSuffix(strings.ToLower(term), "s") {
		suffix = `s?`
	}
	return `(?i)` + regexp.QuoteMeta(term) + suffix
}

// Len returns the number of matchable entries.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.terms)
}

// Entries returns the entries in match order.
func (idx *Index) Entries() []Entry {
	if idx == nil {
		return nil
	}
	out := make([]Entry, len(idx.terms))
	for i, t := range idx.terms {
		out[i] = t.entry
	}
	return out
}

// Alphabetical returns one entry per distinct term, ordered by term key.
// Where a term is duplicated, the entry Lookup would return is kept.
func (idx *Index) Alphabetical() []Entry {
	if idx == nil {
		return nil
	}
	out := make([]Entry, 0, len(idx.lookup))
	for _, i := range idx.lookup {
		out = append(out, idx.terms[i].entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Lookup finds the entry for term, ignoring case. When the exact term is
// unknown, a simple plural form is reduced and tried again.
func (idx *Index) Lookup(term string) (Entry, bool) {
	if idx == nil {
		return Entry{}, false
	}
	key := normalizeKey(term)
	if i, ok := idx.lookup[key]; ok {
		return idx.terms[i].entry, true
	}
	if stem, ok := strings.CutSuffix(key, "s"); ok {
		if i, ok := idx.lookup[stem]; ok {
			return idx.terms[i].entry, true
		}
	}
	// Mirrors termPattern: "es" only pluralises stems not ending in "s".
	if stem, ok := strings.CutSuffix(key, "es"); ok && !strings.HasSuffix(stem, "s") {
		if i, ok := idx.lookup[stem]; ok {
			return idx.terms[i].entry, true
		}
	}
	return Entry{}, false
}

// isWordRune reports whether r counts as part of a word for boundary
// matching. Unlike regexp's ASCII-only \b this accepts any Unicode letter,
// so "doppelgänger" and "café" behave like ASCII terms.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
