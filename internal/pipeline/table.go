package pipeline

import (
	"fmt"

	"raceresults/internal"
	"raceresults/internal/util"
)

// Table is the working grid handed from stage to stage. Stages never modify
// the table they receive; they return a new one.
type Table struct {
	Document string
	Page     int
	Year     int
	Rows     [][]string

	// Padded marks rows that were filled up with empty cells to reach
	// CanonicalWidth. Set by ResolveTrailingColumns.
	Padded []bool
}

func FromRaw(raw internal.RawTable) Table {
	rows := make([][]string, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		rows = append(rows, util.NormalizeCells(row))
	}
	return Table{Document: raw.Document, Page: raw.Page, Year: raw.Year, Rows: rows}
}

func (t Table) Source() string {
	return fmt.Sprintf("%s p.%d", t.Document, t.Page)
}

func (t Table) Clone() Table {
	out := t
	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	if t.Padded != nil {
		out.Padded = append([]bool(nil), t.Padded...)
	}
	return out
}

func (t Table) withRows(rows [][]string) Table {
	out := t
	out.Rows = rows
	if len(out.Padded) != len(rows) {
		out.Padded = nil
	}
	return out
}

// RowPadded reports whether row r was filled up with empty cells.
func (t Table) RowPadded(r int) bool {
	return r >= 0 && r < len(t.Padded) && t.Padded[r]
}

func (t Table) Width() int {
	w := 0
	for _, row := range t.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

func (t Table) Column(i int) []string {
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = cell(row, i)
	}
	return out
}

func (t Table) ColumnEmpty(i int) bool {
	for _, row := range t.Rows {
		if cell(row, i) != "" {
			return false
		}
	}
	return true
}

// InsertColumn inserts an empty column before index i in every row. Rows
// shorter than i are padded first.
func (t Table) InsertColumn(i int) Table {
	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		row = padRow(row, i)
		next := make([]string, 0, len(row)+1)
		next = append(next, row[:i]...)
		next = append(next, "")
		next = append(next, row[i:]...)
		rows[r] = next
	}
	return t.withRows(rows)
}

func (t Table) DropColumn(i int) Table {
	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		if i >= len(row) {
			rows[r] = append([]string(nil), row...)
			continue
		}
		next := make([]string, 0, len(row)-1)
		next = append(next, row[:i]...)
		next = append(next, row[i+1:]...)
		rows[r] = next
	}
	return t.withRows(rows)
}

func cell(row []string, i int) string {
	if i >= 0 && i < len(row) {
		return row[i]
	}
	return ""
}

// padRow returns a copy of row with at least n cells.
func padRow(row []string, n int) []string {
	size := len(row)
	if n > size {
		size = n
	}
	out := make([]string, size)
	copy(out, row)
	return out
}
