package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/benford-cli/internal/benford"
	"github.com/KaramelBytes/benford-cli/internal/export"
	"github.com/KaramelBytes/benford-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	adjFlags inputFlags
	adjSeed  uint64
	adjForce bool
	adjOut   string
	adjXLSX  bool
)

var adjustCmd = &cobra.Command{
	Use:   "adjust <file>",
	Short: "Synthesize a Benford-conforming, mean-preserving column and export the table",
	Long: `Adjust audits the column like analyze. When it deviates from Benford's Law (or
--force is given) it synthesizes a replacement column with the same number of values
and the same mean, appends it as <column>_benford and writes the whole table.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		opt, err := adjFlags.options(cmd)
		if err != nil {
			return err
		}
		rep, err := audit(args[0], opt)
		if err != nil {
			return err
		}
		if rep.Verdict() == benford.Conforms && !adjForce {
			fmt.Fprintln(w, strings.TrimRight(rep.Markdown(), "\n"))
			fmt.Fprintf(w, "\n✓ Column '%s' already conforms to Benford's Law; no file written (use --force to adjust anyway)\n", rep.Column)
			return nil
		}

		seed := cfg.Seed
		if cmd.Flags().Changed("seed") {
			seed = adjSeed
		}
		if _, err := rep.Adjust(benford.NewSeededSynthesizer(seed), opt.SampleRows); err != nil {
			return err
		}
		fmt.Fprintln(w, strings.TrimRight(rep.Markdown(), "\n"))

		out := adjOut
		if out == "" {
			out = cfg.OutputFile
			if adjXLSX {
				out = strings.TrimSuffix(out, filepath.Ext(out)) + ".xlsx"
			}
		}
		var buf bytes.Buffer
		if adjXLSX || strings.EqualFold(filepath.Ext(out), ".xlsx") {
			err = export.WriteXLSX(&buf, rep.Adjusted.Table)
		} else {
			err = export.WriteCSV(&buf, rep.Adjusted.Table)
		}
		if err != nil {
			return err
		}
		if err := utils.SafeWriteFile(out, buf.Bytes()); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(w, "\n✓ Wrote %d rows with '%s' to %s\n", len(rep.Adjusted.Table.Rows), rep.Adjusted.Column, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(adjustCmd)
	adjFlags.register(adjustCmd)
	adjustCmd.Flags().Uint64Var(&adjSeed, "seed", 0, "random seed for reproducible output (0 = time-based)")
	adjustCmd.Flags().BoolVar(&adjForce, "force", false, "adjust even when the column already conforms")
	adjustCmd.Flags().StringVarP(&adjOut, "out", "o", "", "export path (default from config: benford_adjusted.csv)")
	adjustCmd.Flags().BoolVar(&adjXLSX, "xlsx", false, "write an .xlsx workbook instead of CSV")
}
