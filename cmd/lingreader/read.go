package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ehollis/lingreader/pkg/document"
	"github.com/ehollis/lingreader/pkg/paginate"
	"github.com/ehollis/lingreader/pkg/resolver"
	"github.com/ehollis/lingreader/pkg/session"
	"github.com/ehollis/lingreader/pkg/store"
	"github.com/ehollis/lingreader/pkg/tokenizer"
)

var readCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Open a document at its saved reading position",
	Long: `Read opens a stored document in a simple terminal pager, resuming at
the saved position. Position updates are saved automatically a moment
after you stop paging.

Commands inside the pager:
  n          next page
  p          previous page
  g <page>   go to page
  w <word>   show the stored translation for a word
  m          toggle scroll/page display mode
  q          quit`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		st, err := store.NewSQLite(db)
		if err != nil {
			return err
		}
		doc, err := loadDocument(ctx, st, args[0])
		if err != nil {
			return err
		}
		norm, err := resolver.ForLanguage(doc.SourceLanguage)
		if err != nil {
			return err
		}

		coord := session.New(doc, docSaver{st: st})
		coord.Debounce = cfg.Reader.SaveDebounce()
		coord.Logger = logger
		defer coord.Close()

		table := paginate.NewTable(doc.Tokens, cfg.Reader.Metrics(float64(doc.FontSizePx)), cfg.Reader.Tuning())
		page := table.PageFor(coord.Restore())

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s-%s)\n", doc.Title, doc.SourceLanguage, doc.TargetLanguage)
		printPage(out, doc, table, page)

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			fields := strings.Fields(scanner.Text())
			if len(fields) == 0 {
				continue
			}

			switch fields[0] {
			case "q", "quit":
				return nil
			case "n", "next":
				page = turnTo(coord, table, table.Next(page))
				printPage(out, doc, table, page)
			case "p", "prev":
				page = turnTo(coord, table, table.Prev(page))
				printPage(out, doc, table, page)
			case "g", "go":
				if len(fields) < 2 {
					fmt.Fprintln(out, "usage: g <page>")
					continue
				}
				n, err := strconv.Atoi(fields[1])
				if err != nil {
					fmt.Fprintf(out, "not a page number: %s\n", fields[1])
					continue
				}
				page = turnTo(coord, table, table.Clamp(n))
				printPage(out, doc, table, page)
			case "w", "word":
				if len(fields) < 2 {
					fmt.Fprintln(out, "usage: w <word>")
					continue
				}
				printTranslation(out, doc, norm, fields[1])
			case "m", "mode":
				if coord.Mode() == session.ModePage {
					coord.SetMode(session.ModeScroll)
				} else {
					coord.SetMode(session.ModePage)
				}
				fmt.Fprintf(out, "display mode: %s\n", doc.DisplayMode)
			default:
				fmt.Fprintln(out, "commands: n p g <page> w <word> m q")
			}
		}
	},
}

// turnTo records the new page's first token as the reading anchor.
func turnTo(coord *session.Coordinator, table paginate.BreakTable, page int) int {
	start, _ := table.Range(page)
	coord.SetAnchor(start)
	return page
}

func printPage(out io.Writer, doc *document.Document, table paginate.BreakTable, page int) {
	start, end := table.Range(page)
	fmt.Fprintf(out, "\n--- page %d/%d ---\n", page, table.PageCount())
	fmt.Fprintln(out, strings.TrimSpace(tokenizer.Reassemble(doc.Tokens[start:end])))
}

func printTranslation(out io.Writer, doc *document.Document, norm resolver.Normalizer, word string) {
	key := norm.Key(word)
	entry, ok := doc.Dictionary[key]
	if !ok || entry.Unknown {
		fmt.Fprintf(out, "%s: ? (no translation; try retranslate)\n", word)
		return
	}
	if entry.PartOfSpeech != "" {
		fmt.Fprintf(out, "%s: %s (%s)\n", word, entry.Translation, entry.PartOfSpeech)
		return
	}
	fmt.Fprintf(out, "%s: %s\n", word, entry.Translation)
}
