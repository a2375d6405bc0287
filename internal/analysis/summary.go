package analysis

import (
	"github.com/KaramelBytes/benford-cli/internal/benford"
	"github.com/KaramelBytes/benford-cli/internal/dataset"
)

// Summary is the machine-readable view of a Report for JSON and YAML output.
type Summary struct {
	RunID        string                `json:"run_id" yaml:"run_id"`
	File         string                `json:"file,omitempty" yaml:"file,omitempty"`
	Sheet        string                `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	Column       string                `json:"column" yaml:"column"`
	Stats        dataset.SeriesStats   `json:"stats" yaml:"stats"`
	Profile      dataset.ColumnProfile `json:"profile" yaml:"profile"`
	Digits       int                   `json:"digits" yaml:"digits"`
	Counts       map[int]int           `json:"counts" yaml:"counts"`
	Chart        []ChartPoint          `json:"chart" yaml:"chart"`
	Deviation    map[int]float64       `json:"deviation" yaml:"deviation"`
	Threshold    float64               `json:"threshold" yaml:"threshold"`
	MaxDeviation float64               `json:"max_deviation" yaml:"max_deviation"`
	MaxDigit     int                   `json:"max_digit" yaml:"max_digit"`
	Exceeding    []int                 `json:"exceeding" yaml:"exceeding"`
	Verdict      benford.Verdict       `json:"verdict" yaml:"verdict"`
	Notes        []string              `json:"notes,omitempty" yaml:"notes,omitempty"`
	Adjusted     *AdjustedSummary      `json:"adjusted,omitempty" yaml:"adjusted,omitempty"`
}

// AdjustedSummary describes the synthesized column.
type AdjustedSummary struct {
	Column       string     `json:"column" yaml:"column"`
	Values       int        `json:"values" yaml:"values"`
	OriginalMean float64    `json:"original_mean" yaml:"original_mean"`
	AdjustedMean float64    `json:"adjusted_mean" yaml:"adjusted_mean"`
	Preview      [][]string `json:"preview,omitempty" yaml:"preview,omitempty"`
}

// Summary builds the machine-readable view of r.
func (r *Report) Summary() Summary {
	a := r.Analysis
	cmp := a.Comparison
	s := Summary{
		RunID:        r.RunID.String(),
		File:         r.Name,
		Sheet:        r.Sheet,
		Column:       r.Column,
		Stats:        r.Stats,
		Profile:      r.Profile,
		Digits:       a.Counts.Total(),
		Counts:       make(map[int]int, benford.NumDigits),
		Chart:        ChartSeries(cmp.Expected, cmp.Observed),
		Deviation:    make(map[int]float64, benford.NumDigits),
		Threshold:    cmp.Threshold,
		MaxDeviation: cmp.MaxDeviation,
		MaxDigit:     cmp.MaxDigit,
		Exceeding:    cmp.Exceeding(),
		Verdict:      cmp.Verdict,
		Notes:        r.Warnings,
	}
	if s.Exceeding == nil {
		s.Exceeding = []int{}
	}
	for d := 1; d <= benford.NumDigits; d++ {
		s.Counts[d] = a.Counts.Count(d)
		s.Deviation[d] = cmp.Deviation[d-1]
	}
	if adj := r.Adjusted; adj != nil {
		s.Adjusted = &AdjustedSummary{
			Column:       adj.Column,
			Values:       adj.Series.Len(),
			OriginalMean: adj.OriginalMean,
			AdjustedMean: adj.AdjustedMean,
			Preview:      adj.Preview,
		}
	}
	return s
}
