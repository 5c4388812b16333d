package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ehollis/lingreader/pkg/codec"
	"github.com/ehollis/lingreader/pkg/document"
	"github.com/ehollis/lingreader/pkg/tokenizer"
)

func setupStore(t *testing.T) *SQLite {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Ensure single connection to avoid separate in-memory DBs per connection.
	conn.SetMaxOpenConns(1)
	s, err := NewSQLite(conn)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func encodedFixture(t *testing.T, title string) (string, []byte) {
	doc := document.New(title, "en", "es", tokenizer.Tokenize("Hello world."), nil)
	data, err := codec.Encode(doc)
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return doc.ID, data
}

func TestPutGetRoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	id, record := encodedFixture(t, "First")
	if err := s.Put(ctx, id, record); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != string(record) {
		t.Error("stored record differs from written record")
	}
}

func TestGetMissing(t *testing.T) {
	s := setupStore(t)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPutReplacesAtomically(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	id, record := encodedFixture(t, "Original")
	if err := s.Put(ctx, id, record); err != nil {
		t.Fatalf("put: %v", err)
	}

	doc, err := codec.Decode(record)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	doc.LastReadTokenIndex = 3
	updated, err := codec.Encode(doc)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if err := s.Put(ctx, id, updated); err != nil {
		t.Fatalf("second put: %v", err)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	decoded, err := codec.Decode(got)
	if err != nil {
		t.Fatalf("decode stored: %v", err)
	}
	if decoded.LastReadTokenIndex != 3 {
		t.Errorf("expected replaced record, got pos %d", decoded.LastReadTokenIndex)
	}

	metas, err := s.ListMetadata(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(metas) != 1 {
		t.Errorf("upsert should not duplicate rows, got %d", len(metas))
	}
}

func TestDeleteAndList(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	idA, recA := encodedFixture(t, "Keep")
	idB, recB := encodedFixture(t, "Drop")
	if err := s.Put(ctx, idA, recA); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, idB, recB); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(ctx, idB); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Deleting a missing id is not an error.
	if err := s.Delete(ctx, idB); err != nil {
		t.Fatalf("re-delete: %v", err)
	}

	metas, err := s.ListMetadata(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(metas) != 1 || metas[0].ID != idA {
		t.Fatalf("unexpected listing %+v", metas)
	}
	if metas[0].Title != "Keep" {
		t.Errorf("metadata title not extracted from record: %+v", metas[0])
	}
}

func TestPutOpaqueRecordStillStored(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	// A record the metadata probe cannot read is still stored under its id.
	if err := s.Put(ctx, "blob-1", []byte("\x00\x01 not json")); err != nil {
		t.Fatalf("put opaque: %v", err)
	}
	got, err := s.Get(ctx, "blob-1")
	if err != nil {
		t.Fatalf("get opaque: %v", err)
	}
	if len(got) == 0 {
		t.Error("opaque record lost")
	}
}
