package pipeline

import (
	"fmt"
	"strconv"

	"raceresults/internal/util"
)

// CoercionError reports a required numeric cell holding something that is not
// a number.
type CoercionError struct {
	Document string
	Page     int
	Row      int
	Field    string
	Value    string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("%s p.%d row %d: %s is not numeric: %q", e.Document, e.Page, e.Row, e.Field, e.Value)
}

var numericSlots = []int{SlotOverallPlace, SlotBib}

// CoerceTypes brings cells into their canonical text form: rank and bib cells
// lose thousands separators and must be whole numbers (or empty), the
// birth-year cell is clipped to four characters, every cell is trimmed.
func CoerceTypes(t Table) (Table, error) {
	out := t.Clone()
	for r, row := range out.Rows {
		for i := range row {
			row[i] = util.NormalizeSpaces(row[i])
		}
		for _, slot := range numericSlots {
			if slot >= len(row) || row[slot] == "" {
				continue
			}
			n, err := util.ParseCount(row[slot])
			if err != nil {
				return Table{}, &CoercionError{
					Document: t.Document,
					Page:     t.Page,
					Row:      r + 1,
					Field:    FieldNames[slot],
					Value:    row[slot],
				}
			}
			row[slot] = strconv.Itoa(n)
		}
		if SlotBirthYear < len(row) {
			row[SlotBirthYear] = clip(row[SlotBirthYear], 4)
		}
	}
	return out, nil
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
