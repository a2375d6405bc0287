package analysis

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/benford-cli/internal/benford"
)

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	a := r.Analysis
	cmp := a.Comparison

	b.WriteString("[BENFORD ANALYSIS]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Sheet != "" {
		b.WriteString(fmt.Sprintf("Sheet: %s\n", r.Sheet))
	}
	b.WriteString(fmt.Sprintf("Run: %s\n", r.RunID))
	b.WriteString(fmt.Sprintf("Column: %s\n", safeName(r.Column)))
	b.WriteString(fmt.Sprintf("Rows: %d (values %d, missing %d, malformed %d)\n", r.Stats.Rows, r.Stats.Values, r.Stats.Missing, r.Stats.Malformed))
	b.WriteString(fmt.Sprintf("Digits analyzed: %d\n", a.Counts.Total()))
	p := r.Profile
	b.WriteString(fmt.Sprintf("Summary: min %.4g, max %.4g, mean %.4g, median %.4g, std %.4g\n", p.Min, p.Max, p.Mean, p.Median, p.Std))

	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		writeTable(&b, r.Header, r.Samples)
	}

	b.WriteString("\n[DISTRIBUTION]\n")
	b.WriteString("| digit | count | observed | benford | deviation |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for d := 1; d <= benford.NumDigits; d++ {
		flag := ""
		if cmp.AbsDeviation(d) > cmp.Threshold {
			flag = " !"
		}
		b.WriteString(fmt.Sprintf("| %d | %d | %.4f | %.4f | %+.4f%s |\n",
			d, a.Counts.Count(d), cmp.Observed.Freq(d), cmp.Expected.Freq(d), cmp.Deviation[d-1], flag))
	}

	b.WriteString("\n[CHART]\n")
	_ = BarChart(&b, ChartSeries(cmp.Expected, cmp.Observed), 40)

	b.WriteString("\n[VERDICT]\n")
	switch cmp.Verdict {
	case benford.Conforms:
		b.WriteString(fmt.Sprintf("✓ %s: every digit is within %.3f of Benford's Law (max %.4f at digit %d)\n",
			cmp.Verdict, cmp.Threshold, cmp.MaxDeviation, cmp.MaxDigit))
	default:
		b.WriteString(fmt.Sprintf("✗ %s: digit(s) %s deviate by more than %.3f (max %.4f at digit %d)\n",
			cmp.Verdict, joinInts(cmp.Exceeding()), cmp.Threshold, cmp.MaxDeviation, cmp.MaxDigit))
	}

	if adj := r.Adjusted; adj != nil {
		b.WriteString("\n[ADJUSTED]\n")
		b.WriteString(fmt.Sprintf("Mean: original %.6g, adjusted %.6g\n", adj.OriginalMean, adj.AdjustedMean))
		if len(adj.Preview) > 0 {
			writeTable(&b, adj.PreviewHeader, adj.Preview)
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| ")
	for i, h := range header {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeName(h))
	}
	b.WriteString(" |\n| ")
	for i := range header {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	for _, row := range rows {
		b.WriteString("| ")
		for i := range header {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			b.WriteString(safeVal(truncate(val, 80)))
		}
		b.WriteString(" |\n")
	}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
