package analysis

import (
	"fmt"

	"github.com/KaramelBytes/benford-cli/internal/benford"
	"github.com/KaramelBytes/benford-cli/internal/dataset"
	"github.com/KaramelBytes/benford-cli/internal/export"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

// Options controls a Benford audit of one table column.
type Options struct {
	// Column to audit; empty selects the first numeric column.
	Column string
	// Threshold is the per-digit deviation tolerated before the column deviates.
	Threshold float64
	// SampleRows determines how many preview rows to include in the report.
	SampleRows int
	// Parse carries the locale settings used to read numeric cells.
	Parse dataset.Options
}

// DefaultOptions returns the standard audit settings.
func DefaultOptions() Options {
	return Options{
		Threshold:  benford.DefaultThreshold,
		SampleRows: 5,
		Parse:      dataset.DefaultOptions(),
	}
}

// Report is the result of auditing one column, ready to render.
type Report struct {
	RunID    uuid.UUID
	Name     string
	Sheet    string
	Column   string
	Profile  dataset.ColumnProfile
	Stats    dataset.SeriesStats
	Analysis *benford.Analysis
	Header   []string
	Samples  [][]string
	Warnings []string

	// Set by Adjust.
	Adjusted *Adjustment

	table  *dataset.Table
	series benford.Series
}

// Adjustment is the synthesized replacement for the audited column.
type Adjustment struct {
	// Column is the name of the appended column in Table.
	Column string

	Table         *dataset.Table
	Series        benford.Series
	OriginalMean  float64
	AdjustedMean  float64
	PreviewHeader []string
	Preview       [][]string
}

// Analyze audits one column of t against Benford's Law.
func Analyze(t *dataset.Table, opt Options) (*Report, error) {
	if opt.Threshold == 0 {
		opt.Threshold = benford.DefaultThreshold
	}
	if err := benford.ValidateThreshold(opt.Threshold); err != nil {
		return nil, err
	}
	column, err := t.ResolveColumn(opt.Column, opt.Parse)
	if err != nil {
		return nil, err
	}
	series, st, err := t.Series(column, opt.Parse)
	if err != nil {
		return nil, err
	}
	prof, err := t.ProfileColumn(column, opt.Parse)
	if err != nil {
		return nil, err
	}
	if series.Len() == 0 {
		return nil, fmt.Errorf("column '%s': %w", column, benford.ErrInsufficientData)
	}
	a, err := benford.Analyze(series, benford.Options{Threshold: opt.Threshold})
	if err != nil {
		return nil, fmt.Errorf("column '%s': %w", column, err)
	}
	rep := &Report{
		RunID:    uuid.New(),
		Name:     t.Name,
		Sheet:    t.Sheet,
		Column:   column,
		Profile:  prof,
		Stats:    st,
		Analysis: a,
		Header:   t.Header,
		Samples:  t.Head(opt.SampleRows),
		table:    t,
		series:   series,
	}
	rep.Warnings = append(rep.Warnings, t.Warnings...)
	rep.Warnings = append(rep.Warnings, st.Notes(column)...)
	if d := a.Digits.Dropped; d > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d zero value(s) have no leading digit and were left out of the distribution", d))
	}
	return rep, nil
}

// Verdict returns the conformance verdict of the audited column.
func (r *Report) Verdict() benford.Verdict { return r.Analysis.Verdict() }

// Adjust synthesizes a Benford-conforming, mean-preserving replacement for the
// audited column and builds the augmented table. previewRows limits the
// [column, column_benford] preview.
func (r *Report) Adjust(syn *benford.Synthesizer, previewRows int) (*Adjustment, error) {
	adjusted, err := benford.Adjust(r.series, syn)
	if err != nil {
		return nil, fmt.Errorf("column '%s': %w", r.Column, err)
	}
	tbl, err := export.Augment(r.table, r.Column, adjusted)
	if err != nil {
		return nil, err
	}
	header, preview, err := export.Preview(tbl, r.Column, previewRows)
	if err != nil {
		return nil, err
	}
	r.Adjusted = &Adjustment{
		Column:        tbl.Header[len(tbl.Header)-1],
		Table:         tbl,
		Series:        adjusted,
		OriginalMean:  stat.Mean(r.series.Values, nil),
		AdjustedMean:  stat.Mean(adjusted.Values, nil),
		PreviewHeader: header,
		Preview:       preview,
	}
	return r.Adjusted, nil
}
