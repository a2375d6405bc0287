package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/benford-cli/internal/benford"
	"github.com/KaramelBytes/benford-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	abFlags      inputFlags
	abReportsDir string
	abQuiet      bool
	abKeepGoing  bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Audit multiple CSV/TSV/XLSX files and summarize their verdicts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		var files []string
		seen := map[string]struct{}{}
		for _, arg := range args {
			matches, _ := filepath.Glob(arg)
			if len(matches) == 0 {
				// treat as literal path if exists
				if _, err := os.Stat(arg); err == nil {
					matches = []string{arg}
				}
			}
			for _, m := range matches {
				if _, ok := seen[m]; ok {
					continue
				}
				seen[m] = struct{}{}
				files = append(files, m)
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		sort.Strings(files)

		opt, err := abFlags.options(cmd)
		if err != nil {
			return err
		}

		total := len(files)
		var deviating, failed int
		written := map[string]struct{}{}
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(w, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			rep, err := audit(path, opt)
			if err != nil {
				if !abKeepGoing {
					return fmt.Errorf("%s: %w", path, err)
				}
				failed++
				fmt.Fprintf(w, "⚠ Warning: %s: %v\n", path, err)
				continue
			}
			if rep.Verdict() == benford.Deviates {
				deviating++
			}
			cmp := rep.Analysis.Comparison
			fmt.Fprintf(w, "%s\t%s\t%s\tmax deviation %.4f at digit %d\n",
				path, rep.Column, rep.Verdict(), cmp.MaxDeviation, cmp.MaxDigit)

			if abReportsDir == "" {
				continue
			}
			base := filepath.Base(path)
			safe := strings.TrimSuffix(base, filepath.Ext(base))
			outFile := filepath.Join(abReportsDir, safe+".benford.md")
			if _, dup := written[outFile]; dup {
				idx := 2
				for {
					cand := filepath.Join(abReportsDir, fmt.Sprintf("%s__%d.benford.md", safe, idx))
					if _, ok := written[cand]; !ok {
						if !abQuiet {
							fmt.Fprintf(w, "⚠ Detected existing report, writing to %s to avoid overwrite.\n", filepath.Base(cand))
						}
						outFile = cand
						break
					}
					idx++
				}
			}
			if err := utils.SafeWriteFile(outFile, []byte(rep.Markdown())); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			written[outFile] = struct{}{}
			if !abQuiet {
				fmt.Fprintf(w, "✓ Wrote report to %s\n", outFile)
			}
		}
		fmt.Fprintf(w, "\n%d file(s): %d deviate, %d conform", total, deviating, total-deviating-failed)
		if failed > 0 {
			fmt.Fprintf(w, ", %d failed", failed)
		}
		fmt.Fprintln(w)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abFlags.register(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abReportsDir, "reports-dir", "", "directory to write one Markdown report per file")
	analyzeBatchCmd.Flags().BoolVarP(&abQuiet, "quiet", "q", false, "suppress progress output")
	analyzeBatchCmd.Flags().BoolVar(&abKeepGoing, "keep-going", false, "continue past files that fail to analyze")
}
