package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"raceresults/internal/util"
)

var reNameLike = regexp.MustCompile(`\p{L}{2,}`)

// emptyRank stands in for a missing rank inside a fused identity cell.
const emptyRank = "-"

// SanitizeRows drops the banner row extraction puts on top of a table (any
// cell equal to one of markers) and every row without a single digit, which
// covers repeated column labels and blank lines.
func SanitizeRows(t Table, markers []string) Table {
	rows := t.Rows
	if len(rows) > 0 && hasMarker(rows[0], markers) {
		rows = rows[1:]
	}

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		if !util.AnyCell(row, util.HasDigit) {
			continue
		}
		out = append(out, append([]string(nil), row...))
	}
	return t.withRows(out)
}

func hasMarker(row []string, markers []string) bool {
	for _, c := range row {
		c = strings.TrimSpace(c)
		for _, m := range markers {
			if c == m {
				return true
			}
		}
	}
	return false
}

// FuseIdentity joins rank cells that extraction split off the name cell back
// into column 0. The split point is taken from the first row: the first
// name-like cell, provided every cell before it is a number and it sits no
// further right than the bib slot. An empty rank cell is kept as emptyRank so
// the remaining ranks stay in position.
func FuseIdentity(t Table) Table {
	if len(t.Rows) == 0 {
		return t.Clone()
	}
	k := identityIndex(t.Rows[0])
	if k <= 0 {
		return t.Clone()
	}

	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		if len(row) <= k {
			rows[r] = append([]string(nil), row...)
			continue
		}
		parts := make([]string, 0, k+1)
		for i, c := range row[:k+1] {
			switch {
			case c != "":
				parts = append(parts, c)
			case i < k:
				parts = append(parts, emptyRank)
			}
		}
		next := make([]string, 0, len(row)-k)
		next = append(next, strings.Join(parts, " "))
		next = append(next, row[k+1:]...)
		rows[r] = next
	}
	return t.withRows(rows)
}

func identityIndex(row []string) int {
	for i, c := range row {
		if i > SlotBib {
			return -1
		}
		if reNameLike.MatchString(c) {
			return i
		}
		if c != "" && !util.IsCount(c) {
			return -1
		}
	}
	return -1
}

// TagYear appends the competition year of the source document as the last
// column of every row.
func TagYear(t Table) Table {
	year := strconv.Itoa(t.Year)
	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		next := make([]string, 0, len(row)+1)
		next = append(next, row...)
		rows[r] = append(next, year)
	}
	return t.withRows(rows)
}
