package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ehollis/lingreader/pkg/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents, most recently opened first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		st, err := store.NewSQLite(db)
		if err != nil {
			return err
		}

		metas, err := st.ListMetadata(cmd.Context())
		if err != nil {
			return err
		}
		if len(metas) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no documents stored")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tPAIR\tLAST OPENED")
		for _, m := range metas {
			opened := "never"
			if !m.LastOpenedAt.IsZero() {
				opened = m.LastOpenedAt.Local().Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%s\t%s\t%s-%s\t%s\n", m.ID, m.Title, m.SourceLanguage, m.TargetLanguage, opened)
		}
		return w.Flush()
	},
}
