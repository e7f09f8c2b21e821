package pipeline

import (
	"strings"

	"raceresults/internal/util"
)

// CompactColumns settles the birth-year slot and the category slot after it.
// When the birth-year column is empty in every row, a year-like prefix in
// the category cell is moved into it; this separates a birth year that
// extraction fused with the next field ("1978M40"). A category column left
// empty in every row is dropped.
func CompactColumns(t Table) Table {
	out := t.Clone()
	if out.Width() <= SlotCategory {
		return out
	}

	if out.ColumnEmpty(SlotBirthYear) {
		for r, row := range out.Rows {
			tail := cell(row, SlotCategory)
			prefix := util.YearPrefix(tail)
			if prefix == "" {
				continue
			}
			row = padRow(row, SlotCategory+1)
			row[SlotBirthYear] = prefix
			row[SlotCategory] = strings.TrimSpace(tail[len(prefix):])
			out.Rows[r] = row
		}
	}

	if out.ColumnEmpty(SlotCategory) {
		out = out.DropColumn(SlotCategory)
	}
	return out
}
