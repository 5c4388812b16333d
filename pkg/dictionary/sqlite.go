package dictionary

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ehollis/lingreader/pkg/document"
)

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	word TEXT NOT NULL,
	source_lang TEXT NOT NULL,
	target_lang TEXT NOT NULL,
	translation TEXT NOT NULL,
	part_of_speech TEXT NOT NULL DEFAULT '',
	UNIQUE(word, source_lang, target_lang)
);
CREATE INDEX IF NOT EXISTS idx_entries_word ON entries(word, source_lang, target_lang)
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

// SQLiteSource looks up translations for one language pair from a SQLite
// dictionary database.
type SQLiteSource struct {
	db   *sql.DB
	pair LanguagePair

	lookupStmt *sql.Stmt
}

// OpenSQLite opens (and migrates) the dictionary database at path and
// returns a source scoped to the given language pair.
func OpenSQLite(path string, pair LanguagePair) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary db: %w", err)
	}
	src, err := NewSQLiteSource(db, pair)
	if err != nil {
		db.Close()
		return nil, err
	}
	return src, nil
}

// NewSQLiteSource migrates the connection and prepares the lookup statement.
func NewSQLiteSource(db *sql.DB, pair LanguagePair) (*SQLiteSource, error) {
	if err := InitDB(db); err != nil {
		return nil, fmt.Errorf("migrate dictionary db: %w", err)
	}
	stmt, err := db.Prepare(
		`SELECT translation, part_of_speech FROM entries WHERE word = ? AND source_lang = ? AND target_lang = ?`)
	if err != nil {
		return nil, fmt.Errorf("prepare lookup: %w", err)
	}
	return &SQLiteSource{db: db, pair: pair, lookupStmt: stmt}, nil
}

// Lookup finds the entry for a normalized key in this source's pair.
func (s *SQLiteSource) Lookup(key string) (document.TranslationEntry, bool, error) {
	var e document.TranslationEntry
	var pos sql.NullString
	err := s.lookupStmt.QueryRow(key, s.pair.Source, s.pair.Target).
		Scan(&e.Translation, &pos)
	if err == sql.ErrNoRows {
		return document.TranslationEntry{}, false, nil
	}
	if err != nil {
		return document.TranslationEntry{}, false, err
	}
	if pos.Valid {
		e.PartOfSpeech = pos.String
	}
	return e, true, nil
}

// Import upserts bundle entries for this source's language pair and
// returns the number of rows written.
func (s *SQLiteSource) Import(entries []BundleEntry) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	count := 0
	for _, e := range entries {
		word := strings.TrimSpace(e.Word)
		if word == "" {
			continue
		}
		_, err := tx.Exec(
			`INSERT INTO entries (word, source_lang, target_lang, translation, part_of_speech)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(word, source_lang, target_lang)
			 DO UPDATE SET
			   translation = excluded.translation,
			   part_of_speech = COALESCE(NULLIF(excluded.part_of_speech, ''), entries.part_of_speech)`,
			word, s.pair.Source, s.pair.Target, e.Translation, e.PartOfSpeech)
		if err != nil {
			return count, fmt.Errorf("upsert entry %q: %w", word, err)
		}
		count++
	}
	if err := tx.Commit(); err != nil {
		return count, fmt.Errorf("commit import: %w", err)
	}
	return count, nil
}

// Close releases the prepared statement and the connection.
func (s *SQLiteSource) Close() error {
	if s.lookupStmt != nil {
		_ = s.lookupStmt.Close()
	}
	return s.db.Close()
}
