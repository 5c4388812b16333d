package main

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/ehollis/lingreader/pkg/document"
	"github.com/ehollis/lingreader/pkg/store"
	"github.com/ehollis/lingreader/pkg/tokenizer"

	_ "github.com/mattn/go-sqlite3"
)

func newTestStore(t *testing.T) *store.SQLite {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	st, err := store.NewSQLite(db)
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func TestDocSaverRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	tokens := tokenizer.Tokenize("Hola mundo.")
	doc := document.New("Saludo", "es", "en", tokens, document.Dictionary{
		"hola":  {Translation: "hello"},
		"mundo": {Translation: "world", PartOfSpeech: "noun"},
	})
	doc.LastReadTokenIndex = 2

	if err := (docSaver{st: st}).SaveDocument(ctx, doc); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}

	got, err := loadDocument(ctx, st, doc.ID)
	if err != nil {
		t.Fatalf("loadDocument: %v", err)
	}
	if got.Title != "Saludo" || got.LastReadTokenIndex != 2 {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if len(got.Tokens) != len(tokens) {
		t.Errorf("token count %d, want %d", len(got.Tokens), len(tokens))
	}
	if got.Dictionary["mundo"].Translation != "world" {
		t.Errorf("dictionary lost: %+v", got.Dictionary)
	}
}

func TestLoadDocumentMissing(t *testing.T) {
	st := newTestStore(t)
	if _, err := loadDocument(context.Background(), st, "no-such-id"); err == nil {
		t.Error("expected error for missing document")
	}
}

func TestLoadDocumentCorruptedReadsAsNotFound(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.Put(ctx, "bad-record", []byte("not a document")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	_, err := loadDocument(ctx, st, "bad-record")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("corrupted record should read as not found, got %v", err)
	}
}

func TestRootCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"add", "list", "read", "delete", "retranslate", "translate", "dict"} {
		if !names[want] {
			t.Errorf("command %q not registered", want)
		}
	}
}
