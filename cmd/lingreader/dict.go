package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ehollis/lingreader/pkg/dictionary"
)

var (
	dictSource string
	dictTarget string
)

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Manage the local translation dictionary",
}

var dictImportCmd = &cobra.Command{
	Use:   "import <bundle.json>",
	Short: "Import a word-translation bundle into the local dictionary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := dictionary.LoadBundle(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "loaded %d entries, importing...\n", len(entries))

		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		pair := dictionary.LanguagePair{Source: dictSource, Target: dictTarget}
		src, err := dictionary.NewSQLiteSource(db, pair)
		if err != nil {
			return err
		}
		n, err := src.Import(entries)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d entries for %s\n", n, pair)
		return nil
	},
}

func init() {
	dictImportCmd.Flags().StringVar(&dictSource, "source", "", "source language code (default: from config)")
	dictImportCmd.Flags().StringVar(&dictTarget, "target", "", "target language code (default: from config)")
	dictImportCmd.PreRun = func(cmd *cobra.Command, args []string) {
		if dictSource == "" {
			dictSource = cfg.SourceLang
		}
		if dictTarget == "" {
			dictTarget = cfg.TargetLang
		}
	}

	dictCmd.AddCommand(dictImportCmd)
}
