package analysis

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/benford-cli/internal/benford"
)

// ChartPoint is one digit of the grouped bar chart: the expected and observed
// frequency side by side.
type ChartPoint struct {
	Digit    int     `json:"digit" yaml:"digit"`
	Benford  float64 `json:"benford" yaml:"benford"`
	Observed float64 `json:"observed" yaml:"observed"`
}

// ChartSeries aligns the two distributions by digit 1..9.
func ChartSeries(expected, observed benford.Distribution) []ChartPoint {
	out := make([]ChartPoint, benford.NumDigits)
	for i := range out {
		d := i + 1
		out[i] = ChartPoint{Digit: d, Benford: expected.Freq(d), Observed: observed.Freq(d)}
	}
	return out
}

// BarChart draws a grouped horizontal bar chart of points, one pair of bars per
// digit. width is the length of the longest bar.
func BarChart(w io.Writer, points []ChartPoint, width int) error {
	if width <= 0 {
		width = 40
	}
	peak := 0.0
	for _, p := range points {
		peak = max(peak, p.Benford, p.Observed)
	}
	if peak == 0 {
		peak = 1
	}
	bar := func(f float64, glyph string) string {
		n := int(f/peak*float64(width) + 0.5)
		return strings.Repeat(glyph, n)
	}
	for _, p := range points {
		if _, err := fmt.Fprintf(w, "%d Benford  |%-*s %5.1f%%\n", p.Digit, width, bar(p.Benford, "░"), p.Benford*100); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  Observed |%-*s %5.1f%%\n", width, bar(p.Observed, "█"), p.Observed*100); err != nil {
			return err
		}
	}
	return nil
}
