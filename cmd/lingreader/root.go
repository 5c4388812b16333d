package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ehollis/lingreader/pkg/codec"
	"github.com/ehollis/lingreader/pkg/config"
	"github.com/ehollis/lingreader/pkg/document"
	"github.com/ehollis/lingreader/pkg/store"

	_ "github.com/mattn/go-sqlite3"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  = log.New(os.Stderr, "", log.LstdFlags)
)

var rootCmd = &cobra.Command{
	Use:   "lingreader",
	Short: "Read foreign-language documents with inline word translations",
	Long: `Lingreader ingests documents (text, Markdown, HTML, EPUB, PDF, or web
pages), translates every unique word through a local dictionary, and
stores the result for offline paged reading with per-word lookups.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.lingreader/config.yaml)",
	)

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(retranslateCmd)
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(dictCmd)
}

// openDatabase opens the shared SQLite database, creating its directory
// on first use. Documents and dictionary entries live in separate tables
// of the same file.
func openDatabase() (*sql.DB, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// docSaver persists documents through the codec into the store.
type docSaver struct {
	st store.Store
}

func (s docSaver) SaveDocument(ctx context.Context, doc *document.Document) error {
	record, err := codec.Encode(doc)
	if err != nil {
		return err
	}
	return s.st.Put(ctx, doc.ID, record)
}

// loadDocument fetches and decodes one stored document. A record the
// codec cannot reconstruct reads as not found rather than surfacing
// decoder internals.
func loadDocument(ctx context.Context, st store.Store, id string) (*document.Document, error) {
	record, err := st.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := codec.Decode(record)
	if err != nil {
		if errors.Is(err, codec.ErrCorruptedRecord) {
			logger.Printf("document %s: %v", id, err)
			return nil, fmt.Errorf("document %s: %w", id, store.ErrNotFound)
		}
		return nil, err
	}
	return doc, nil
}
