package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/benford-cli/internal/analysis"
	"github.com/KaramelBytes/benford-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaFlags      inputFlags
	anaFormat     string
	anaOutputPath string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Audit a numeric column of a CSV/TSV/XLSX against Benford's Law",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := anaFlags.options(cmd)
		if err != nil {
			return err
		}
		rep, err := audit(args[0], opt)
		if err != nil {
			return err
		}
		out, err := render(rep, anaFormat)
		if err != nil {
			return err
		}

		// Decide where to write: --output path or stdout
		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s (%s)\n", anaOutputPath, rep.Verdict())
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(out), "\n"))
		return nil
	},
}

// render encodes rep as markdown, json or yaml.
func render(rep *analysis.Report, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "markdown", "md":
		return []byte(rep.Markdown()), nil
	case "json":
		return utils.PrettyJSON(rep.Summary())
	case "yaml", "yml":
		return utils.YAML(rep.Summary())
	default:
		return nil, fmt.Errorf("unsupported --format: %s (use markdown|json|yaml)", format)
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaFlags.register(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "markdown", "output format: markdown|json|yaml")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
}
