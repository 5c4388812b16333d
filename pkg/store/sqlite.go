package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ehollis/lingreader/pkg/codec"
	"github.com/ehollis/lingreader/pkg/document"
)

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	source_lang TEXT NOT NULL DEFAULT '',
	target_lang TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP,
	last_opened_at TIMESTAMP,
	record BLOB NOT NULL
)
`

// InitDB runs migrations on the given DB connection.
func InitDB(db *sql.DB) error {
	stmts := strings.Split(migrationsSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// SQLite is a sqlite-backed document store. Metadata columns are extracted
// from the record on Put so listing never decodes full documents.
type SQLite struct {
	db *sql.DB
}

// Open opens (and migrates) the document database at path.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open document db: %w", err)
	}
	s, err := NewSQLite(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLite migrates the connection and wraps it.
func NewSQLite(db *sql.DB) (*SQLite, error) {
	if err := InitDB(db); err != nil {
		return nil, fmt.Errorf("migrate document db: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Get returns the stored record for id.
func (s *SQLite) Get(ctx context.Context, id string) ([]byte, error) {
	var record []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM documents WHERE id = ?`, id).Scan(&record)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	return record, nil
}

// Put upserts a record. Transient write failures are retried a few times;
// the caller treats a final failure as non-fatal to live state.
func (s *SQLite) Put(ctx context.Context, id string, record []byte) error {
	meta, err := codec.DecodeMetadata(record)
	if err != nil {
		// Best-effort metadata; the record itself is still stored.
		meta = document.Metadata{ID: id}
	}
	return retry.Do(
		func() error {
			_, err := s.db.ExecContext(ctx,
				`INSERT INTO documents (id, title, source_lang, target_lang, created_at, last_opened_at, record)
				 VALUES (?, ?, ?, ?, ?, ?, ?)
				 ON CONFLICT(id) DO UPDATE SET
				   title = excluded.title,
				   source_lang = excluded.source_lang,
				   target_lang = excluded.target_lang,
				   last_opened_at = excluded.last_opened_at,
				   record = excluded.record`,
				id, meta.Title, meta.SourceLanguage, meta.TargetLanguage,
				meta.CreatedAt, meta.LastOpenedAt, record)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(50*time.Millisecond),
		retry.LastErrorOnly(true),
	)
}

// Delete removes a document. Deleting a missing id is not an error.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

// ListMetadata returns listing rows for all stored documents, most
// recently opened first.
func (s *SQLite) ListMetadata(ctx context.Context) ([]document.Metadata, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, source_lang, target_lang, created_at, last_opened_at
		 FROM documents ORDER BY last_opened_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []document.Metadata
	for rows.Next() {
		var m document.Metadata
		var created, opened sql.NullTime
		if err := rows.Scan(&m.ID, &m.Title, &m.SourceLanguage, &m.TargetLanguage, &created, &opened); err != nil {
			return nil, err
		}
		if created.Valid {
			m.CreatedAt = created.Time
		}
		if opened.Valid {
			m.LastOpenedAt = opened.Time
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close releases the connection.
func (s *SQLite) Close() error { return s.db.Close() }
