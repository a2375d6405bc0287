package benford

import (
	"fmt"
	"math"
	"strconv"
)

// Series is an ordered column of values keyed by stable row identifiers.
// IDs and Values always have the same length.
type Series struct {
	IDs    []int
	Values []float64
}

// NewSeries builds a Series whose IDs are the positions 0..len(values)-1.
func NewSeries(values []float64) Series {
	ids := make([]int, len(values))
	for i := range ids {
		ids[i] = i
	}
	return Series{IDs: ids, Values: values}
}

// Len returns the number of values in the series.
func (s Series) Len() int { return len(s.Values) }

func (s Series) validate() error {
	if len(s.IDs) != len(s.Values) {
		return fmt.Errorf("series: %d ids for %d values", len(s.IDs), len(s.Values))
	}
	return nil
}

// DigitSequence holds the leading digits of the values that yielded one, aligned to
// their source IDs. Dropped counts values without a leading digit (zero, NaN, ±Inf).
type DigitSequence struct {
	IDs     []int
	Digits  []int
	Dropped int
}

// Len returns the number of extracted digits.
func (d DigitSequence) Len() int { return len(d.Digits) }

// LeadingDigit returns the first significant decimal digit of |x|, read from
// the shortest decimal form that round-trips to x (the digits a user typed).
// ok is false for zero, NaN and ±Inf, which have no leading digit.
func LeadingDigit(x float64) (digit int, ok bool) {
	a := math.Abs(x)
	if a == 0 || math.IsNaN(a) || math.IsInf(a, 0) {
		return 0, false
	}
	// 'e' format always starts with the non-zero leading digit: "4.56e+01".
	return int(strconv.FormatFloat(a, 'e', -1, 64)[0] - '0'), true
}

// Extract returns the leading digit of every value in s that has one.
func Extract(s Series) (DigitSequence, error) {
	if err := s.validate(); err != nil {
		return DigitSequence{}, err
	}
	seq := DigitSequence{
		IDs:    make([]int, 0, len(s.Values)),
		Digits: make([]int, 0, len(s.Values)),
	}
	for i, v := range s.Values {
		d, ok := LeadingDigit(v)
		if !ok {
			seq.Dropped++
			continue
		}
		seq.IDs = append(seq.IDs, s.IDs[i])
		seq.Digits = append(seq.Digits, d)
	}
	return seq, nil
}
