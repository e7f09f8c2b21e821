package pipeline

import (
	"regexp"

	"raceresults/internal/util"
)

var (
	reDurationAny = regexp.MustCompile(`\d{1,2}:\d{2}(?::\d{2})?`)
	reHMS         = regexp.MustCompile(`^\d{1,2}:[0-5]\d:[0-5]\d$`)
	reMS          = regexp.MustCompile(`^[0-5]\d:[0-5]\d$`)
)

// NormalizeTime extracts the first duration-shaped substring of cell and
// returns it as H:MM:SS or HH:MM:SS. A bare MM:SS gets a "00:" hour prefix;
// anything else becomes TimeSentinel.
func NormalizeTime(cell string) string {
	v := reDurationAny.FindString(cell)
	switch {
	case reHMS.MatchString(v):
		return v
	case reMS.MatchString(v):
		return "00:" + v
	default:
		return TimeSentinel
	}
}

// FindTimeColumn returns the first column from TrailingScanStart on where any
// row holds a duration, or -1.
func FindTimeColumn(t Table) int {
	return firstColumn(t, func(s string) bool { return reDurationAny.MatchString(s) })
}

// FindYearColumn returns the first column from TrailingScanStart on where any
// row holds a four-digit run, or -1.
func FindYearColumn(t Table) int {
	return firstColumn(t, func(s string) bool { return util.FirstFourDigits(s) != "" })
}

func firstColumn(t Table, match func(string) bool) int {
	width := t.Width()
	for i := TrailingScanStart; i < width; i++ {
		for _, row := range t.Rows {
			if match(cell(row, i)) {
				return i
			}
		}
	}
	return -1
}

// ResolveTrailingColumns copies the time column into SlotFinishTime and the
// year column into SlotCompetitionYear, then cuts every row to
// CanonicalWidth. The last cell of each input row is the year tag; it is the
// year value when no column matches. Rows with fewer than AssembledDataWidth
// cells before the tag are marked in Padded. Both source columns are located
// on the input table before either slot is written, so one cannot overwrite
// the other.
func ResolveTrailingColumns(t Table) Table {
	timeCol := FindTimeColumn(t)
	yearCol := FindYearColumn(t)

	rows := make([][]string, len(t.Rows))
	padded := make([]bool, len(t.Rows))
	for r, src := range t.Rows {
		if len(src) == 0 {
			rows[r] = make([]string, CanonicalWidth)
			padded[r] = true
			continue
		}
		padded[r] = len(src)-1 < AssembledDataWidth
		tag := src[len(src)-1]
		row := padRow(src[:len(src)-1], CanonicalWidth)
		row[SlotCompetitionYear] = tag
		if timeCol >= 0 {
			row[SlotFinishTime] = NormalizeTime(cell(src, timeCol))
		}
		if yearCol >= 0 {
			if year := util.FirstFourDigits(cell(src, yearCol)); year != "" {
				row[SlotCompetitionYear] = year
			}
		}
		rows[r] = row[:CanonicalWidth]
	}
	out := t.withRows(rows)
	out.Padded = padded
	return out
}
