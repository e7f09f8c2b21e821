package pipeline

import (
	"strings"

	"raceresults/internal/util"
)

// SplitIdentity explodes the identity cell (column 0) into the six identity
// slots and, when every row of the table ends in a birth year, a birth-year
// column right after them. The remaining cells follow unchanged.
//
// The number of leading rank tokens is read from the first row and applied
// to every row by position: one token is the bib, two are place and bib,
// three are place, age-group place and bib. A later row whose token in a rank
// position is not a number keeps it there, so CoerceTypes rejects it. Name
// tokens fill last name and first names; a table with longer names folds
// the surplus into the second first name.
func SplitIdentity(t Table) Table {
	identities := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		identities[r] = strings.ReplaceAll(cell(row, 0), ",", "")
	}

	birthYears := trailingBirthYears(identities)
	if birthYears != nil {
		for r, id := range identities {
			identities[r] = strings.TrimSpace(id[:len(id)-4])
		}
	}

	tokens := make([][]string, len(identities))
	for r, id := range identities {
		tokens[r] = strings.Fields(id)
	}
	layout := 0
	if len(tokens) > 0 {
		layout = countRankTokens(tokens[0])
	}
	nameCols := 0
	for _, tok := range tokens {
		if n := len(tok) - min(layout, len(tok)); n > nameCols {
			nameCols = n
		}
	}

	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		rank := min(layout, len(tokens[r]))
		names := padRow(tokens[r][rank:], nameCols)

		next := make([]string, IdentityWidth, IdentityWidth+len(row))
		placeRank(next, tokens[r][:rank], layout)
		foldNames(next, names)
		if birthYears != nil {
			next = append(next, birthYears[r])
		}
		if len(row) > 1 {
			next = append(next, row[1:]...)
		}
		rows[r] = next
	}
	return t.withRows(rows)
}

// trailingBirthYears returns the last four characters of every identity when
// all of them are year-like, otherwise nil.
func trailingBirthYears(identities []string) []string {
	if len(identities) == 0 {
		return nil
	}
	out := make([]string, len(identities))
	for i, id := range identities {
		if len(id) < 4 {
			return nil
		}
		tail := id[len(id)-4:]
		if !util.IsYear(tail) {
			return nil
		}
		out[i] = tail
	}
	return out
}

func countRankTokens(tokens []string) int {
	n := 0
	for n < len(tokens) && n < rankSlots && (tokens[n] == emptyRank || util.IsCount(tokens[n])) {
		n++
	}
	return n
}

// placeRank writes rank tokens into the slots of a layout with the given
// number of rank positions. Missing tokens and emptyRank leave a slot empty.
func placeRank(row []string, rank []string, layout int) {
	var slots []int
	switch layout {
	case 1:
		slots = []int{SlotBib}
	case 2:
		slots = []int{SlotOverallPlace, SlotBib}
	case 3:
		slots = []int{SlotOverallPlace, SlotAgeGroupPlace, SlotBib}
	}
	for i, slot := range slots {
		if i < len(rank) && rank[i] != emptyRank {
			row[slot] = rank[i]
		}
	}
}

func foldNames(row []string, names []string) {
	slots := []int{SlotLastName, SlotFirstName1, SlotFirstName2}
	for i, slot := range slots {
		if i >= len(names) {
			return
		}
		if i == nameSlots-1 {
			row[slot] = strings.TrimSpace(strings.Join(names[i:], " "))
			return
		}
		row[slot] = names[i]
	}
}
