package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Options controls how tabular files are read and how their cells are parsed.
type Options struct {
	// MaxRows limits rows read; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, chosen by extension ('\t' for .tsv, ',' otherwise).
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune // optional; if 0, auto-detect common separators (',' '.' space)
	// XLSX sheet selection. SheetName wins over SheetIndex (1-based).
	SheetName  string
	SheetIndex int
}

// DefaultOptions returns reasonable defaults for reading a dataset.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

// Table is a parsed dataset: a header row and data rows padded to the header width.
type Table struct {
	Name     string
	Sheet    string
	Header   []string
	Rows     [][]string
	Total    int // data rows in the source, including rows beyond MaxRows
	Warnings []string
}

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.Header) }

// ColumnIndex resolves a column by name, ignoring case and surrounding space.
func (t *Table) ColumnIndex(name string) (int, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, h := range t.Header {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i, true
		}
	}
	return -1, false
}

// Head returns up to n data rows.
func (t *Table) Head(n int) [][]string {
	if n <= 0 {
		return nil
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}

// ReadFile reads a CSV/TSV or XLSX file from disk.
func ReadFile(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IngestionError{Path: path, Err: err}
	}
	defer f.Close()
	t, err := Read(f, filepath.Base(path), opt)
	if err != nil {
		var ie *IngestionError
		if errors.As(err, &ie) {
			ie.Path = path
		}
		return nil, err
	}
	return t, nil
}

// Read parses r, choosing the format from the extension of name.
func Read(r io.Reader, name string, opt Options) (*Table, error) {
	var (
		t   *Table
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx", ".xlsm":
		t, err = readXLSX(r, opt)
	case ".xls":
		err = fmt.Errorf("%w: legacy .xls workbooks cannot be read; re-save as .xlsx", ErrUnsupported)
	case ".csv", ".tsv", ".txt", "":
		t, err = readCSV(r, name, opt)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}
	if err != nil {
		return nil, &IngestionError{Path: name, Err: err}
	}
	t.Name = name
	return t, nil
}

func readCSV(r io.Reader, name string, opt Options) (*Table, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(name)
	}
	// strip a UTF-8 BOM written by spreadsheet tools
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	t := newTable(header)
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", t.Total+1, err)
		}
		t.add(rec, opt.MaxRows)
	}
	t.finish()
	return t, nil
}

func newTable(header []string) *Table {
	h := make([]string, len(header))
	for i, v := range header {
		h[i] = strings.TrimSpace(v)
	}
	return &Table{Header: h}
}

// add appends a copy of rec padded or cut to the header width, honoring maxRows.
func (t *Table) add(rec []string, maxRows int) {
	t.Total++
	if maxRows > 0 && len(t.Rows) >= maxRows {
		return
	}
	row := make([]string, len(t.Header))
	copy(row, rec)
	t.Rows = append(t.Rows, row)
}

func (t *Table) finish() {
	if len(t.Rows) < t.Total {
		t.Warnings = append(t.Warnings, fmt.Sprintf("processed only %d/%d rows due to MaxRows", len(t.Rows), t.Total))
	}
}

func sniffDelimiter(name string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	return ','
}
