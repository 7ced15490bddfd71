package sources

import (
	"context"
	"errors"
	"testing"

	"github.com/ziadkadry99/filmguide/internal/db"
	"github.com/ziadkadry99/filmguide/internal/glossary"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestStoreUpsertAndGet(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	err := store.Upsert(ctx, glossary.Entry{
		Term:          "Film Noir",
		Definition:    "Stylish crime drama.",
		ReferenceLink: "https://en.wikipedia.org/wiki/Film_noir",
	}, "")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := store.Get(ctx, "film noir")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Term != "Film Noir" || got.ReferenceLink == "" {
		t.Errorf("Get = %+v", got)
	}

	// Same term in a different case replaces the row.
	if err := store.Upsert(ctx, glossary.Entry{Term: "FILM NOIR", Definition: "Updated."}, "csv"); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
	got, _ = store.Get(ctx, "Film noir")
	if got.Definition != "Updated." || got.ReferenceLink != "" {
		t.Errorf("after update = %+v", got)
	}
}

func TestStoreUpsertRejectsInvalid(t *testing.T) {
	store := setupStore(t)
	if err := store.Upsert(context.Background(), glossary.Entry{Term: "noir"}, ""); err == nil {
		t.Error("expected error for missing definition")
	}
}

func TestStoreGetMissing(t *testing.T) {
	store := setupStore(t)
	_, err := store.Get(context.Background(), "nothing")
	if !errors.Is(err, ErrTermNotFound) {
		t.Errorf("err = %v, want ErrTermNotFound", err)
	}
}

func TestStoreListAndDelete(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, e := range []glossary.Entry{
		{Term: "noir", Definition: "style"},
		{Term: "Neo-noir", Definition: "revival"},
		{Term: "anime", Definition: "animation"},
		{Term: "n_gram", Definition: "literal underscore"},
	} {
		if err := store.Upsert(ctx, e, "yaml"); err != nil {
			t.Fatalf("Upsert(%s): %v", e.Term, err)
		}
	}

	all, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var terms []string
	for _, e := range all {
		terms = append(terms, e.Term)
	}
	want := []string{"anime", "n_gram", "Neo-noir", "noir"}
	if len(terms) != len(want) {
		t.Fatalf("List = %v, want %v", terms, want)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Errorf("List[%d] = %q, want %q", i, terms[i], want[i])
		}
	}

	ns, err := store.List(ctx, "N")
	if err != nil {
		t.Fatalf("List(N): %v", err)
	}
	if len(ns) != 3 {
		t.Errorf("List(N) = %d entries, want 3", len(ns))
	}
	under, _ := store.List(ctx, "n_")
	if len(under) != 1 {
		t.Errorf("List(n_) = %d entries, want 1 (underscore is literal)", len(under))
	}

	if err := store.Delete(ctx, "NOIR"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "noir"); !errors.Is(err, ErrTermNotFound) {
		t.Errorf("second Delete err = %v, want ErrTermNotFound", err)
	}
}

func TestStoreReplaceAll(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, glossary.Entry{Term: "stale", Definition: "old"}, ""); err != nil {
		t.Fatal(err)
	}

	n, err := store.ReplaceAll(ctx, []glossary.Entry{
		{Term: "anime", Definition: "first"},
		{Term: "Anime", Definition: "second"},
		{Term: "mecha", Definition: "robots"},
		{Term: "", Definition: "broken"},
	}, "csv:glossary.csv")
	if err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if n != 3 {
		t.Errorf("written = %d, want 3", n)
	}

	count, _ := store.Count(ctx)
	if count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}
	if _, err := store.Get(ctx, "stale"); !errors.Is(err, ErrTermNotFound) {
		t.Error("ReplaceAll should remove old entries")
	}
	got, _ := store.Get(ctx, "anime")
	if got == nil || got.Definition != "second" {
		t.Errorf("later duplicate should win, got %+v", got)
	}

	imp, err := store.LastImport(ctx)
	if err != nil {
		t.Fatalf("LastImport: %v", err)
	}
	if imp == nil || imp.Source != "csv:glossary.csv" || imp.Imported != 3 || imp.Skipped != 1 {
		t.Errorf("LastImport = %+v", imp)
	}
}

func TestStoreAsSource(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if _, err := store.Load(ctx); !errors.Is(err, ErrNoRows) {
		t.Errorf("empty store err = %v, want ErrNoRows", err)
	}
	if imp, err := store.LastImport(ctx); err != nil || imp != nil {
		t.Errorf("LastImport on empty store = %+v, %v", imp, err)
	}

	store.Upsert(ctx, glossary.Entry{Term: "auteur", Definition: "director"}, "")
	res, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Entries) != 1 || res.Source != "sqlite::memory:" {
		t.Errorf("Load = %+v", res)
	}
}
