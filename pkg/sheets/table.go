package sheets

import (
	"fmt"
	"strconv"
)

// Table is a rectangular view over raw sheet rows: every row has exactly
// len(Header) cells. Missing trailing cells are padded with empty strings,
// never treated as a structural error.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Normalize converts raw sheet values (first row is the header) into a
// rectangular table. Ragged rows are padded to the widest row seen,
// header included. An empty input yields an empty table with no columns.
func Normalize(values [][]any) Table {
	if len(values) == 0 {
		return Table{}
	}

	maxCols := 0
	for _, row := range values {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}

	header := padRow(values[0], maxCols)
	rows := make([][]string, 0, len(values)-1)
	for _, raw := range values[1:] {
		rows = append(rows, padRow(raw, maxCols))
	}

	return Table{Header: header, Rows: rows}
}

func padRow(raw []any, width int) []string {
	row := make([]string, width)
	for i := 0; i < width; i++ {
		if i < len(raw) {
			row[i] = cellString(raw[i])
		}
	}
	return row
}

func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(cell)
}

// Empty reports whether the table holds no data rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Cell returns the value at (row, col), or "" when the index is out of
// range. Lookups past the table edge degrade instead of panicking.
func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	cells := t.Rows[row]
	if col < 0 || col >= len(cells) {
		return ""
	}
	return cells[col]
}
