package dictionary

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Ensure single connection to avoid separate in-memory DBs per connection.
	db.SetMaxOpenConns(1)
	return db
}

func TestBundleSourceLookup(t *testing.T) {
	src := NewBundleSource([]BundleEntry{
		{Word: "hello", Translation: "hola", PartOfSpeech: "interjection"},
		{Word: "world", Translation: "mundo"},
		{Word: "hello", Translation: "buenas"}, // duplicate key, ignored
	})
	if src.Len() != 2 {
		t.Fatalf("expected 2 indexed keys, got %d", src.Len())
	}
	e, ok, err := src.Lookup("hello")
	if err != nil || !ok {
		t.Fatalf("lookup hello: ok=%v err=%v", ok, err)
	}
	if e.Translation != "hola" || e.PartOfSpeech != "interjection" {
		t.Errorf("unexpected entry %+v", e)
	}
	if _, ok, _ := src.Lookup("missing"); ok {
		t.Error("expected miss for unindexed key")
	}
}

func TestLoadBundleShapes(t *testing.T) {
	dir := t.TempDir()

	arrayPath := filepath.Join(dir, "array.json")
	if err := os.WriteFile(arrayPath, []byte(`[{"word":"cat","translation":"gato"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	entries, err := LoadBundle(arrayPath)
	if err != nil {
		t.Fatalf("load array bundle: %v", err)
	}
	if len(entries) != 1 || entries[0].Word != "cat" {
		t.Fatalf("unexpected entries %#v", entries)
	}

	wrapperPath := filepath.Join(dir, "wrapper.json")
	if err := os.WriteFile(wrapperPath, []byte(`{"entries":[{"word":"dog","translation":"perro","pos":"noun"}]}`), 0644); err != nil {
		t.Fatal(err)
	}
	entries, err = LoadBundle(wrapperPath)
	if err != nil {
		t.Fatalf("load wrapper bundle: %v", err)
	}
	if len(entries) != 1 || entries[0].PartOfSpeech != "noun" {
		t.Fatalf("unexpected entries %#v", entries)
	}

	badPath := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(badPath, []byte(`not json`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBundle(badPath); err == nil {
		t.Error("expected error for malformed bundle")
	}
}

func TestSQLiteSourceImportAndLookup(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	pair := LanguagePair{Source: "en", Target: "es"}
	src, err := NewSQLiteSource(db, pair)
	if err != nil {
		t.Fatalf("new source: %v", err)
	}

	n, err := src.Import([]BundleEntry{
		{Word: "hello", Translation: "hola", PartOfSpeech: "interjection"},
		{Word: "world", Translation: "mundo"},
		{Word: "  ", Translation: "skipped"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 imported rows, got %d", n)
	}

	e, ok, err := src.Lookup("hello")
	if err != nil || !ok {
		t.Fatalf("lookup: ok=%v err=%v", ok, err)
	}
	if e.Translation != "hola" {
		t.Errorf("unexpected translation %q", e.Translation)
	}

	// Re-import updates in place rather than duplicating.
	if _, err := src.Import([]BundleEntry{{Word: "hello", Translation: "buenas"}}); err != nil {
		t.Fatalf("re-import: %v", err)
	}
	e, _, _ = src.Lookup("hello")
	if e.Translation != "buenas" {
		t.Errorf("expected updated translation, got %q", e.Translation)
	}
	if e.PartOfSpeech != "interjection" {
		t.Errorf("empty pos on re-import should keep prior value, got %q", e.PartOfSpeech)
	}

	if _, ok, _ := src.Lookup("nothing"); ok {
		t.Error("expected miss")
	}
}

func TestSessionCachesPerPair(t *testing.T) {
	opened := 0
	sess := NewSession(func(pair LanguagePair) (Source, error) {
		opened++
		if pair.Source == "xx" {
			return nil, errors.New("no such dictionary")
		}
		return NewBundleSource(nil), nil
	})

	pair := LanguagePair{Source: "en", Target: "es"}
	a, err := sess.Load(pair)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b, err := sess.Load(pair)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if a != b {
		t.Error("expected cached source on second load")
	}
	if opened != 1 {
		t.Errorf("expected one open, got %d", opened)
	}

	if _, err := sess.Load(LanguagePair{Source: "xx", Target: "es"}); err == nil {
		t.Error("expected error for failing opener")
	}
}
