package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/benford-cli/internal/analysis"
	"github.com/KaramelBytes/benford-cli/internal/dataset"
	"github.com/spf13/cobra"
)

// inputFlags are the ingestion and audit flags shared by the file commands.
type inputFlags struct {
	column     string
	delimiter  string
	decimal    string
	thousands  string
	sheetName  string
	sheetIndex int
	sampleRows int
	maxRows    int
	threshold  float64
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.column, "column", "c", "", "column to audit (default: first numeric column)")
	fl.StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	fl.StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	fl.StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	fl.StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	fl.IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	fl.IntVar(&f.sampleRows, "sample-rows", 5, "number of preview rows to include")
	fl.IntVar(&f.maxRows, "max-rows", 0, "maximum rows to read (0 = unlimited)")
	fl.Float64Var(&f.threshold, "threshold", 0.05, "per-digit deviation tolerated before the column deviates")
}

// options merges config values with explicitly set flags.
func (f *inputFlags) options(cmd *cobra.Command) (analysis.Options, error) {
	opt := analysis.DefaultOptions()
	if cfg != nil {
		opt.Threshold = cfg.Threshold
		opt.SampleRows = cfg.SampleRows
		opt.Parse.MaxRows = cfg.MaxRows
	}
	fl := cmd.Flags()
	if fl.Changed("threshold") {
		opt.Threshold = f.threshold
	}
	if fl.Changed("sample-rows") {
		opt.SampleRows = f.sampleRows
	}
	if fl.Changed("max-rows") {
		opt.Parse.MaxRows = f.maxRows
	}
	opt.Column = f.column
	opt.Parse.SheetName = f.sheetName
	opt.Parse.SheetIndex = f.sheetIndex
	if err := applyLocale(&opt.Parse, f.delimiter, f.decimal, f.thousands); err != nil {
		return opt, err
	}
	return opt, nil
}

func applyLocale(opt *dataset.Options, delimiter, decimal, thousands string) error {
	if delimiter != "" {
		switch delimiter {
		case ",":
			opt.Delimiter = ','
		case "\t", "tab":
			opt.Delimiter = '\t'
		case ";":
			opt.Delimiter = ';'
		default:
			return fmt.Errorf("unsupported --delimiter: %s", delimiter)
		}
	}
	// Locale separators
	switch strings.ToLower(strings.TrimSpace(decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", decimal)
	}
	switch strings.ToLower(strings.TrimSpace(thousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", thousands)
	}
	return nil
}

// audit reads path and analyzes the selected column.
func audit(path string, opt analysis.Options) (*analysis.Report, error) {
	tbl, err := dataset.ReadFile(path, opt.Parse)
	if err != nil {
		return nil, err
	}
	rep, err := analysis.Analyze(tbl, opt)
	if err != nil {
		return nil, err
	}
	logger.Debug("analyzed", "file", path, "column", rep.Column, "run_id", rep.RunID, "verdict", rep.Verdict())
	return rep, nil
}
