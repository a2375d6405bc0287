package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// readXLSX reads the selected sheet of a workbook. Cells are read raw so number
// formats do not leak thousands separators or rounding into the values.
func readXLSX(r io.Reader, opt Options) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), opt.SheetName, opt.SheetIndex)
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return &Table{Sheet: sheet}, nil
	}
	t := newTable(rows[0])
	t.Sheet = sheet
	for _, row := range rows[1:] {
		t.add(row, opt.MaxRows)
	}
	t.finish()
	return t, nil
}

// pickSheet resolves a sheet by name, or by 1-based index when name is empty.
func pickSheet(sheets []string, name string, index int) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if name != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, name) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found.\nAvailable sheets: %s", name, strings.Join(sheets, ", "))
	}
	if index <= 0 {
		index = 1
	}
	if index > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", index, len(sheets))
	}
	return sheets[index-1], nil
}
