package sources

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ziadkadry99/filmguide/internal/db"
	"github.com/ziadkadry99/filmguide/internal/glossary"
)

// Store keeps glossary entries in the local SQLite database. Terms are
// unique ignoring case; writing an existing term replaces it.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Name implements Source.
func (s *Store) Name() string {
	return "sqlite:" + s.db.Path()
}

// Load implements Source, returning every stored entry ordered by term.
func (s *Store) Load(ctx context.Context) (Result, error) {
	res := Result{Source: s.Name()}
	entries, err := s.List(ctx, "")
	if err != nil {
		return res, err
	}
	if len(entries) == 0 {
		return res, ErrNoRows
	}
	res.Entries = entries
	return res, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Upsert inserts e or updates the entry with the same term.
func (s *Store) Upsert(ctx context.Context, e glossary.Entry, source string) error {
	return upsert(ctx, s.db, e, source)
}

func upsert(ctx context.Context, ex execer, e glossary.Entry, source string) error {
	if !e.Valid() {
		return fmt.Errorf("entry %q needs a term and a definition", e.Term)
	}
	if source == "" {
		source = "manual"
	}

	var link sql.NullString
	if e.ReferenceLink != "" {
		link = sql.NullString{String: e.ReferenceLink, Valid: true}
	}

	_, err := ex.ExecContext(ctx, `
		INSERT INTO glossary (id, term, term_key, definition, wikipedia_url, source)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(term_key) DO UPDATE SET
			term = excluded.term,
			definition = excluded.definition,
			wikipedia_url = excluded.wikipedia_url,
			source = excluded.source,
			updated_at = datetime('now')`,
		uuid.New().String(),
		strings.TrimSpace(e.Term),
		e.Key(),
		strings.TrimSpace(e.Definition),
		link,
		source,
	)
	if err != nil {
		return fmt.Errorf("upserting term %q: %w", e.Term, err)
	}
	return nil
}

// Get returns the entry for term, ignoring case.
func (s *Store) Get(ctx context.Context, term string) (*glossary.Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT term, definition, wikipedia_url FROM glossary WHERE term_key = ?`,
		glossary.Entry{Term: term}.Key())

	var e glossary.Entry
	var link sql.NullString
	if err := row.Scan(&e.Term, &e.Definition, &link); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrTermNotFound, term)
		}
		return nil, fmt.Errorf("getting term %q: %w", term, err)
	}
	e.ReferenceLink = link.String
	return &e, nil
}

// List returns entries ordered by term. A non-empty prefix limits the
// result to terms starting with it, ignoring case.
func (s *Store) List(ctx context.Context, prefix string) ([]glossary.Entry, error) {
	query := "SELECT term, definition, wikipedia_url FROM glossary"
	var args []any
	if prefix != "" {
		query += ` WHERE term_key LIKE ? ESCAPE '\'`
		args = append(args, escapeLike(glossary.Entry{Term: prefix}.Key())+"%")
	}
	query += " ORDER BY term_key ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing glossary: %w", err)
	}
	defer rows.Close()

	var entries []glossary.Entry
	for rows.Next() {
		var e glossary.Entry
		var link sql.NullString
		if err := rows.Scan(&e.Term, &e.Definition, &link); err != nil {
			return nil, fmt.Errorf("scanning glossary row: %w", err)
		}
		e.ReferenceLink = link.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes the entry for term.
func (s *Store) Delete(ctx context.Context, term string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM glossary WHERE term_key = ?`, glossary.Entry{Term: term}.Key())
	if err != nil {
		return fmt.Errorf("deleting term %q: %w", term, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting term %q: %w", term, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrTermNotFound, term)
	}
	return nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM glossary`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting glossary: %w", err)
	}
	return n, nil
}

// ReplaceAll swaps the stored glossary for entries in one transaction and
// records the import. Invalid entries are skipped; when two entries share a
// term the later one wins. It returns the number of entries written.
func (s *Store) ReplaceAll(ctx context.Context, entries []glossary.Entry, source string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM glossary`); err != nil {
		return 0, fmt.Errorf("clearing glossary: %w", err)
	}

	written, skipped := 0, 0
	for _, e := range entries {
		if !e.Valid() {
			skipped++
			continue
		}
		if err := upsert(ctx, tx, e, source); err != nil {
			return 0, err
		}
		written++
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO glossary_imports (id, source, rows_imported, rows_skipped)
		VALUES (?, ?, ?, ?)`,
		uuid.New().String(), source, written, skipped,
	); err != nil {
		return 0, fmt.Errorf("recording import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	return written, nil
}

// Import is one recorded ReplaceAll run.
type Import struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	Imported   int    `json:"rows_imported"`
	Skipped    int    `json:"rows_skipped"`
	ImportedAt string `json:"imported_at"`
}

// LastImport returns the most recent import, or nil when none was made.
func (s *Store) LastImport(ctx context.Context) (*Import, error) {
	var imp Import
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source, rows_imported, rows_skipped, imported_at
		FROM glossary_imports ORDER BY imported_at DESC, rowid DESC LIMIT 1`,
	).Scan(&imp.ID, &imp.Source, &imp.Imported, &imp.Skipped, &imp.ImportedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading last import: %w", err)
	}
	return &imp, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
