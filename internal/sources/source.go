// Package sources loads glossary entries from the places a guide keeps
// them: a hosted REST table, a local SQLite store, and CSV, XLSX or YAML
// files. A Loader tries them in order and falls back on failure.
package sources

import (
	"context"
	"errors"
	"strings"

	"github.com/ziadkadry99/filmguide/internal/glossary"
)

var (
	// ErrSourceUnavailable wraps the failure of a single source. The Loader
	// moves on to the next source when it sees one.
	ErrSourceUnavailable = errors.New("glossary source unavailable")

	// ErrFallbackUnavailable is returned by the Loader when every source
	// failed. Callers build an empty index and carry on.
	ErrFallbackUnavailable = errors.New("no glossary source available")

	// ErrNoRows means a source was reachable but held no usable entries.
	ErrNoRows = errors.New("glossary source returned no rows")

	// ErrTermNotFound is returned by Store lookups for unknown terms.
	ErrTermNotFound = errors.New("glossary term not found")
)

// Source is anything that can produce glossary entries.
type Source interface {
	Name() string
	Load(ctx context.Context) (Result, error)
}

// Result is the outcome of loading one source.
type Result struct {
	Entries []glossary.Entry `json:"entries"`
	// Source names the source the entries came from.
	Source string `json:"source"`
	// Skipped counts malformed rows that were dropped.
	Skipped int `json:"skipped"`
}

// columns maps the glossary fields to positions in a tabular header row.
type columns struct {
	term, definition, link int
}

// headerColumns locates the term, definition and reference-link columns of
// a header row, ignoring case and surrounding space. The link column is
// the first one whose name contains "wiki"; it is optional.
func headerColumns(header []string) (columns, bool) {
	c := columns{term: -1, definition: -1, link: -1}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		switch {
		case name == "term" && c.term < 0:
			c.term = i
		case name == "definition" && c.definition < 0:
			c.definition = i
		case strings.Contains(name, "wiki") && c.link < 0:
			c.link = i
		}
	}
	return c, c.term >= 0 && c.definition >= 0
}

// entry builds an Entry from a data row, reporting false when the row is
// too short or lacks a term or definition.
func (c columns) entry(row []string) (glossary.Entry, bool) {
	if len(row) <= c.term || len(row) <= c.definition {
		return glossary.Entry{}, false
	}
	e := glossary.Entry{
		Term:       strings.TrimSpace(row[c.term]),
		Definition: strings.TrimSpace(row[c.definition]),
	}
	if c.link >= 0 && c.link < len(row) {
		e.ReferenceLink = strings.TrimSpace(row[c.link])
	}
	return e, e.Valid()
}

// exportHeader is the header written by the CSV and XLSX exporters.
var exportHeader = []string{"term", "definition", "wikipedia_url"}
