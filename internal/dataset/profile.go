package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
)

// Column kinds, decided by the predominant parsed type of the non-missing cells.
const (
	KindNumeric     = "numeric"
	KindDatetime    = "datetime"
	KindCategorical = "categorical"
	KindText        = "text"
	KindUnknown     = "unknown"
)

// ColumnProfile captures the inferred type and summary statistics of a column.
type ColumnProfile struct {
	Name    string  `json:"name" yaml:"name"`
	Kind    string  `json:"kind" yaml:"kind"`
	NonNull int     `json:"non_null" yaml:"non_null"`
	Missing int     `json:"missing" yaml:"missing"`
	Unique  int     `json:"unique,omitempty" yaml:"unique,omitempty"`
	Min     float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max     float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Mean    float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
	Median  float64 `json:"median,omitempty" yaml:"median,omitempty"`
	Std     float64 `json:"std,omitempty" yaml:"std,omitempty"`
}

// missingTokens are cell values read as missing, matching common spreadsheet exports.
var missingTokens = map[string]struct{}{
	"": {}, "na": {}, "n/a": {}, "nan": {}, "null": {}, "none": {}, "-": {}, "#n/a": {},
}

// IsMissing reports whether a cell holds no value.
func IsMissing(v string) bool {
	_, ok := missingTokens[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

// Profile infers the kind of every column and summarizes numeric ones.
func (t *Table) Profile(opt Options) []ColumnProfile {
	out := make([]ColumnProfile, len(t.Header))
	for j := range t.Header {
		out[j] = t.profileColumn(j, opt)
	}
	return out
}

// ProfileColumn profiles the named column.
func (t *Table) ProfileColumn(name string, opt Options) (ColumnProfile, error) {
	j, ok := t.ColumnIndex(name)
	if !ok {
		return ColumnProfile{}, t.notFound(name)
	}
	return t.profileColumn(j, opt), nil
}

func (t *Table) profileColumn(j int, opt Options) ColumnProfile {
	p := ColumnProfile{Name: safeName(t.Header[j])}
	var nums []float64
	var dtCnt, txtCnt int
	cats := map[string]int{}
	for _, row := range t.Rows {
		v := strings.TrimSpace(row[j])
		if IsMissing(v) {
			p.Missing++
			continue
		}
		p.NonNull++
		if x, ok := ParseNumeric(v, opt); ok {
			nums = append(nums, x)
			continue
		}
		if _, ok := parseTimeMaybe(v); ok {
			dtCnt++
			continue
		}
		txtCnt++
		if len(cats) <= 10000 && len(v) <= 64 {
			cats[v]++
		}
	}
	numCnt := len(nums)
	switch {
	case numCnt >= dtCnt && numCnt >= txtCnt && numCnt > 0:
		p.Kind = KindNumeric
		p.Min, _ = stats.Min(nums)
		p.Max, _ = stats.Max(nums)
		p.Mean, _ = stats.Mean(nums)
		p.Median, _ = stats.Median(nums)
		if numCnt > 1 {
			p.Std, _ = stats.StandardDeviationSample(nums)
		}
	case dtCnt >= txtCnt && dtCnt > 0:
		p.Kind = KindDatetime
	case len(cats) > 0:
		p.Kind = KindCategorical
		p.Unique = len(cats)
	case txtCnt > 0:
		p.Kind = KindText
	default:
		p.Kind = KindUnknown
	}
	return p
}

// NumericColumns returns the names of columns profiled as numeric, in header order.
func (t *Table) NumericColumns(opt Options) ([]string, error) {
	var out []string
	for j, p := range t.Profile(opt) {
		if p.Kind == KindNumeric {
			out = append(out, t.Header[j])
		}
	}
	if len(out) == 0 {
		return nil, ErrNoNumericColumn
	}
	return out, nil
}

// ParseNumeric parses a cell as a number, honoring the locale separators in opt
// (auto-detected when unset), a trailing percent sign and scientific notation.
func ParseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	if strings.Contains(raw, "%") {
		raw = strings.ReplaceAll(raw, "%", "")
	}
	// Normalize spaces
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
				thou = '.'
			} else {
				dec = '.'
				thou = ','
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	// Remove thousands separators (common: ',', '.', space) if they differ from decimal
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseTimeMaybe(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
		"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}
