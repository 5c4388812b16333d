package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ehollis/lingreader/pkg/codec"
	"github.com/ehollis/lingreader/pkg/dictionary"
	"github.com/ehollis/lingreader/pkg/extract"
	"github.com/ehollis/lingreader/pkg/ingest"
	"github.com/ehollis/lingreader/pkg/resolver"
	"github.com/ehollis/lingreader/pkg/store"
)

var (
	addTitle  string
	addSource string
	addTarget string
)

var addCmd = &cobra.Command{
	Use:   "add <file-or-url>",
	Short: "Ingest a document and translate its vocabulary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		input := args[0]

		title := addTitle
		var text string
		var err error
		if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
			var fetched string
			fetched, text, err = extract.FromURL(ctx, input)
			if err != nil {
				return err
			}
			if title == "" {
				title = fetched
			}
		} else {
			text, err = extract.Text(input)
			if err != nil {
				return err
			}
			if title == "" {
				title = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
			}
		}

		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		st, err := store.NewSQLite(db)
		if err != nil {
			return err
		}
		pair := dictionary.LanguagePair{Source: addSource, Target: addTarget}
		src, err := dictionary.NewSQLiteSource(db, pair)
		if err != nil {
			return err
		}
		norm, err := resolver.ForLanguage(pair.Source)
		if err != nil {
			return err
		}

		ig := ingest.NewIngester(src)
		ig.Normalizer = norm
		ig.InitialBatch = cfg.Ingest.InitialBatch
		ig.BatchSize = cfg.Ingest.BatchSize
		ig.Workers = cfg.Ingest.Workers
		ig.Logger = logger
		ig.OnProgress = func(percent int) {
			fmt.Fprintf(cmd.OutOrStdout(), "\rtranslating... %3d%%", percent)
		}

		doc, err := ig.Ingest(ctx, title, text, pair.Source, pair.Target)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout())

		record, err := codec.Encode(doc)
		if err != nil {
			return err
		}
		if err := st.Put(ctx, doc.ID, record); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "added %q (%d tokens, %d unique words)\n  id: %s\n",
			doc.Title, len(doc.Tokens), len(doc.Dictionary), doc.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addTitle, "title", "", "document title (default: page title or file name)")
	addCmd.Flags().StringVar(&addSource, "source", "", "source language code (default: from config)")
	addCmd.Flags().StringVar(&addTarget, "target", "", "target language code (default: from config)")

	addCmd.PreRun = func(cmd *cobra.Command, args []string) {
		if addSource == "" {
			addSource = cfg.SourceLang
		}
		if addTarget == "" {
			addTarget = cfg.TargetLang
		}
	}
}
