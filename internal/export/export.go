// Package export turns an adjusted column back into a downloadable table.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KaramelBytes/benford-cli/internal/benford"
	"github.com/KaramelBytes/benford-cli/internal/dataset"
	"github.com/xuri/excelize/v2"
)

const (
	// FileName is the name the adjusted CSV is offered under.
	FileName = "benford_adjusted.csv"
	// WorkbookFileName is the name used for XLSX exports.
	WorkbookFileName = "benford_adjusted.xlsx"
	// ContentType is the MIME type of the CSV export.
	ContentType = "text/csv; charset=utf-8"
	// WorkbookContentType is the MIME type of the XLSX export.
	WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	bom = "\ufeff"
)

// DerivedColumn names the column holding the adjusted values of column.
func DerivedColumn(column string) string { return column + "_benford" }

// DerivedName returns DerivedColumn(column), suffixed "__2", "__3", ... until it
// no longer collides with a header of t.
func DerivedName(t *dataset.Table, column string) string {
	base := DerivedColumn(column)
	name := base
	for i := 2; ; i++ {
		if _, taken := t.ColumnIndex(name); !taken {
			return name
		}
		name = fmt.Sprintf("%s__%d", base, i)
	}
}

// Augment returns a copy of t with a column of adjusted values appended, aligned by
// row index. Rows without an adjusted value (missing in the source) get an empty cell.
// The appended column is always last and named by DerivedName.
func Augment(t *dataset.Table, column string, adjusted benford.Series) (*dataset.Table, error) {
	if len(adjusted.IDs) != len(adjusted.Values) {
		return nil, fmt.Errorf("augment: %d ids for %d values", len(adjusted.IDs), len(adjusted.Values))
	}
	derived := make([]string, len(t.Rows))
	for i, id := range adjusted.IDs {
		if id < 0 || id >= len(t.Rows) {
			return nil, fmt.Errorf("augment: row id %d out of range (%d rows)", id, len(t.Rows))
		}
		derived[id] = FormatValue(adjusted.Values[i])
	}
	out := &dataset.Table{
		Name:   t.Name,
		Sheet:  t.Sheet,
		Header: append(append([]string{}, t.Header...), DerivedName(t, column)),
		Rows:   make([][]string, len(t.Rows)),
		Total:  len(t.Rows),
	}
	for i, row := range t.Rows {
		r := make([]string, 0, len(row)+1)
		r = append(r, row...)
		out.Rows[i] = append(r, derived[i])
	}
	return out, nil
}

// FormatValue renders an adjusted value in plain decimal notation.
func FormatValue(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// WriteCSV encodes t as UTF-8 CSV with a byte-order mark, so spreadsheet tools
// detect the encoding.
func WriteCSV(w io.Writer, t *dataset.Table) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// WriteXLSX encodes t as a single-sheet workbook. Cells holding plain decimal
// numbers are stored as numbers; anything else (including "007") stays text.
func WriteXLSX(w io.Writer, t *dataset.Table) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	write := func(r int, cells []string) error {
		row := make([]any, len(cells))
		for i, c := range cells {
			if x, err := strconv.ParseFloat(c, 64); err == nil && FormatValue(x) == c {
				row[i] = x
			} else {
				row[i] = c
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &row)
	}
	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := write(i+2, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Preview returns the source column next to the derived column appended by
// Augment for the first n rows.
func Preview(t *dataset.Table, column string, n int) (header []string, rows [][]string, err error) {
	src, ok := t.ColumnIndex(column)
	dst := len(t.Header) - 1
	if !ok || src == dst {
		return nil, nil, fmt.Errorf("%w: '%s'", dataset.ErrColumnNotFound, column)
	}
	if !strings.HasPrefix(strings.ToLower(t.Header[dst]), strings.ToLower(DerivedColumn(t.Header[src]))) {
		return nil, nil, fmt.Errorf("%w: '%s'", dataset.ErrColumnNotFound, DerivedColumn(column))
	}
	for _, row := range t.Head(n) {
		rows = append(rows, []string{row[src], row[dst]})
	}
	return []string{t.Header[src], t.Header[dst]}, rows, nil
}
