package pipeline

import (
	"strings"

	"raceresults/internal"
)

// InferGender reads a gender code out of free category text. "m" is checked
// before "w", so text containing both yields male.
func InferGender(category string) internal.Gender {
	lower := strings.ToLower(category)
	switch {
	case strings.Contains(lower, "m"):
		return internal.GenderMale
	case strings.Contains(lower, "w"):
		return internal.GenderFemale
	default:
		return internal.GenderUnresolved
	}
}

// ApplyGender replaces the category cell of every row with its gender code.
func ApplyGender(t Table) Table {
	out := t.Clone()
	for r, row := range out.Rows {
		row = padRow(row, SlotGender+1)
		row[SlotGender] = string(InferGender(row[SlotGender]))
		out.Rows[r] = row
	}
	return out
}
