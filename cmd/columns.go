package cmd

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/benford-cli/internal/dataset"
	"github.com/spf13/cobra"
)

var colFlags inputFlags

var columnsCmd = &cobra.Command{
	Use:   "columns <file>",
	Short: "List columns with their inferred kinds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := colFlags.options(cmd)
		if err != nil {
			return err
		}
		tbl, err := dataset.ReadFile(args[0], opt.Parse)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "File: %s\n", tbl.Name)
		if tbl.Sheet != "" {
			fmt.Fprintf(w, "Sheet: %s\n", tbl.Sheet)
		}
		fmt.Fprintf(w, "Rows: %d\n\n", len(tbl.Rows))
		fmt.Fprintln(w, "| column | kind | non-null | missing |")
		fmt.Fprintln(w, "| --- | --- | --- | --- |")
		for _, p := range tbl.Profile(opt.Parse) {
			fmt.Fprintf(w, "| %s | %s | %d | %d |\n", p.Name, p.Kind, p.NonNull, p.Missing)
		}
		def, err := tbl.ResolveColumn("", opt.Parse)
		switch {
		case errors.Is(err, dataset.ErrNoNumericColumn):
			fmt.Fprintln(w, "\n⚠ Warning: no numeric column to audit")
		case err != nil:
			return err
		default:
			fmt.Fprintf(w, "\nDefault column: %s\n", def)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	colFlags.register(columnsCmd)
}
