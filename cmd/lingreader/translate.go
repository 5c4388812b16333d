package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ehollis/lingreader/pkg/codec"
	"github.com/ehollis/lingreader/pkg/dictionary"
	"github.com/ehollis/lingreader/pkg/resolver"
	"github.com/ehollis/lingreader/pkg/store"
	"github.com/ehollis/lingreader/pkg/translate"
)

var retranslateContext string

var retranslateCmd = &cobra.Command{
	Use:   "retranslate <id> <word>",
	Short: "Replace one word's translation using the machine translation backend",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, word := args[0], args[1]

		backend := translate.NewAnthropic(cfg.AnthropicAPIKey)
		if !backend.IsAvailable() {
			return fmt.Errorf("no translation backend configured (set ANTHROPIC_API_KEY)")
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
		doc, err := loadDocument(ctx, st, id)
		if err != nil {
			return err
		}
		norm, err := resolver.ForLanguage(doc.SourceLanguage)
		if err != nil {
			return err
		}

		pair := dictionary.LanguagePair{Source: doc.SourceLanguage, Target: doc.TargetLanguage}
		entry, err := backend.TranslateWord(ctx, word, retranslateContext, pair)
		if err != nil {
			return err
		}

		res := resolver.New(nil)
		res.Normalizer = norm
		key := res.UpdateWord(doc.Dictionary, word, entry)

		record, err := codec.Encode(doc)
		if err != nil {
			return err
		}
		if err := st.Put(ctx, doc.ID, record); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s", key, entry.Translation)
		if entry.PartOfSpeech != "" {
			fmt.Fprintf(cmd.OutOrStdout(), " (%s)", entry.PartOfSpeech)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

var (
	translateSource string
	translateTarget string
)

var translateCmd = &cobra.Command{
	Use:   "translate <phrase>...",
	Short: "Translate a phrase without storing anything",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend := translate.NewAnthropic(cfg.AnthropicAPIKey)
		if !backend.IsAvailable() {
			return fmt.Errorf("no translation backend configured (set ANTHROPIC_API_KEY)")
		}

		pair := dictionary.LanguagePair{Source: translateSource, Target: translateTarget}
		out, err := backend.TranslatePhrase(cmd.Context(), strings.Join(args, " "), pair)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	retranslateCmd.Flags().StringVar(&retranslateContext, "context", "", "sentence the word appeared in, to disambiguate")

	translateCmd.Flags().StringVar(&translateSource, "source", "", "source language code (default: from config)")
	translateCmd.Flags().StringVar(&translateTarget, "target", "", "target language code (default: from config)")
	translateCmd.PreRun = func(cmd *cobra.Command, args []string) {
		if translateSource == "" {
			translateSource = cfg.SourceLang
		}
		if translateTarget == "" {
			translateTarget = cfg.TargetLang
		}
	}
}
