package pipeline

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"raceresults/internal"
	"raceresults/internal/util"
)

const (
	overrideBibHeader  = "startnummer"
	overrideYearHeader = "jahrgang"
)

// Overrides maps bib numbers to birth years for one competition year.
type Overrides struct {
	Year       int
	BirthYears map[int]int
}

// LoadOverrides reads the first sheet of an XLSX file with "Startnummer" and
// "Jahrgang" headers. Rows with an unreadable or zero bib or an unreadable
// birth year are skipped.
func LoadOverrides(path string, year int) (*Overrides, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open overrides %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("overrides %s: no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("overrides %s: %w", path, err)
	}
	return parseOverrides(rows, year)
}

func parseOverrides(rows [][]string, year int) (*Overrides, error) {
	bibIdx, yearIdx := -1, -1
	header := 0
	for ; header < len(rows) && bibIdx < 0; header++ {
		bibIdx, yearIdx = overrideColumns(rows[header])
		if bibIdx >= 0 && yearIdx < 0 {
			bibIdx = -1
		}
	}
	if bibIdx < 0 {
		return nil, fmt.Errorf("overrides: headers %q and %q not found", "Startnummer", "Jahrgang")
	}

	ov := &Overrides{Year: year, BirthYears: map[int]int{}}
	for _, row := range rows[header:] {
		bib, err := util.ParseCount(pickCell(row, bibIdx))
		if err != nil || bib == 0 {
			continue
		}
		birth, err := util.ParseCount(pickCell(row, yearIdx))
		if err != nil || !util.IsYear(fmt.Sprint(birth)) {
			continue
		}
		ov.BirthYears[bib] = birth
	}
	return ov, nil
}

func overrideColumns(headers []string) (bibIdx, yearIdx int) {
	bibIdx, yearIdx = -1, -1
	for i, h := range headers {
		switch strings.ToLower(util.NormalizeSpaces(h)) {
		case overrideBibHeader:
			bibIdx = i
		case overrideYearHeader:
			yearIdx = i
		}
	}
	return
}

func pickCell(cells []string, idx int) string {
	if idx >= 0 && idx < len(cells) {
		return strings.TrimSpace(cells[idx])
	}
	return ""
}

func (o *Overrides) Len() int {
	if o == nil {
		return 0
	}
	return len(o.BirthYears)
}

// ApplyOverrides returns a copy of records where every record of the
// override year whose bib is listed carries the listed birth year. The
// pipeline value is replaced without comparison. Records without a bib are
// never matched.
func ApplyOverrides(records []internal.Record, o *Overrides) ([]internal.Record, int) {
	out := append([]internal.Record(nil), records...)
	if o == nil {
		return out, 0
	}
	applied := 0
	for i := range out {
		if out[i].CompetitionYear != o.Year || out[i].BibNumber == 0 {
			continue
		}
		birth, ok := o.BirthYears[out[i].BibNumber]
		if !ok {
			continue
		}
		out[i].BirthYear = birth
		out[i].Flags |= internal.FlagBirthYearOverridden
		out[i].Flags &^= internal.FlagBirthYearMissing
		applied++
	}
	return out, applied
}
