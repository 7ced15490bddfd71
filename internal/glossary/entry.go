// Package glossary matches glossary terms in HTML text and rewrites the
// matched spans into marker elements carrying the term's definition.
package glossary

import "strings"

// Entry is a single glossary term with its definition and an optional
// reference link (usually a Wikipedia article).
type Entry struct {
	Term          string `json:"term" yaml:"term"`
	Definition    string `json:"definition" yaml:"definition"`
	ReferenceLink string `json:"wikipedia_url,omitempty" yaml:"wikipedia_url,omitempty"`
}

// Valid reports whether the entry has both a term and a definition.
// Rows failing this check are skipped by loaders rather than rejected.
func (e Entry) Valid() bool {
	return strings.TrimSpace(e.Term) != "" && strings.TrimSpace(e.Definition) != ""
}

// Key returns the case-insensitive lookup key for the entry's term.
func (e Entry) Key() string {
	return normalizeKey(e.Term)
}

func normalizeKey(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
