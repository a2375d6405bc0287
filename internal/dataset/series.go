package dataset

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/benford-cli/internal/benford"
)

// SeriesStats describes how the cells of a column were turned into values.
type SeriesStats struct {
	Rows      int `json:"rows" yaml:"rows"`
	Values    int `json:"values" yaml:"values"`
	Missing   int `json:"missing" yaml:"missing"`
	Malformed int `json:"malformed" yaml:"malformed"`
}

// Notes renders data-quality remarks for the stats, if any.
func (s SeriesStats) Notes(column string) []string {
	var out []string
	if s.Missing > 0 {
		out = append(out, fmt.Sprintf("%d missing cell(s) in '%s' were dropped", s.Missing, column))
	}
	if s.Malformed > 0 {
		out = append(out, fmt.Sprintf("%d non-numeric cell(s) in '%s' were dropped", s.Malformed, column))
	}
	return out
}

// Series returns the numeric values of the named column keyed by row index.
// Missing cells are dropped; cells that do not parse as numbers are dropped and
// counted as malformed. The column must be profiled as numeric.
func (t *Table) Series(column string, opt Options) (benford.Series, SeriesStats, error) {
	j, ok := t.ColumnIndex(column)
	if !ok {
		return benford.Series{}, SeriesStats{}, t.notFound(column)
	}
	if p := t.profileColumn(j, opt); p.Kind != KindNumeric {
		return benford.Series{}, SeriesStats{}, fmt.Errorf("%w: '%s' is %s", ErrColumnNotNumeric, p.Name, p.Kind)
	}
	st := SeriesStats{Rows: len(t.Rows)}
	s := benford.Series{
		IDs:    make([]int, 0, len(t.Rows)),
		Values: make([]float64, 0, len(t.Rows)),
	}
	for i, row := range t.Rows {
		v := strings.TrimSpace(row[j])
		if IsMissing(v) {
			st.Missing++
			continue
		}
		x, ok := ParseNumeric(v, opt)
		if !ok {
			st.Malformed++
			continue
		}
		s.IDs = append(s.IDs, i)
		s.Values = append(s.Values, x)
	}
	st.Values = s.Len()
	return s, st, nil
}

// ResolveColumn returns column when set, otherwise the first numeric column.
func (t *Table) ResolveColumn(column string, opt Options) (string, error) {
	if strings.TrimSpace(column) != "" {
		j, ok := t.ColumnIndex(column)
		if !ok {
			return "", t.notFound(column)
		}
		return t.Header[j], nil
	}
	cols, err := t.NumericColumns(opt)
	if err != nil {
		return "", err
	}
	return cols[0], nil
}

func (t *Table) notFound(name string) error {
	return fmt.Errorf("%w: '%s' (available: %s)", ErrColumnNotFound, name, strings.Join(t.Header, ", "))
}
