package pipeline

import (
	"fmt"
	"strconv"

	"raceresults/internal"
	"raceresults/internal/util"
)

// AssembleRecords maps each row onto the fixed record schema. The last cell
// of a row is its year column; the cells before it are padded with empty
// fillers up to AssembledDataWidth and cut there. Short rows, and rows an
// earlier stage marked in t.Padded, still produce records flagged FlagPadded.
func AssembleRecords(t Table) []internal.Record {
	out := make([]internal.Record, 0, len(t.Rows))
	for r, row := range t.Rows {
		out = append(out, assembleRow(t, r, row))
	}
	return out
}

func assembleRow(t Table, r int, row []string) internal.Record {
	yearCell := ""
	data := row
	if len(row) > 0 {
		yearCell = row[len(row)-1]
		data = row[:len(row)-1]
	}

	var flags internal.Flag
	if len(data) < AssembledDataWidth || t.RowPadded(r) {
		flags |= internal.FlagPadded
	}
	data = padRow(data, AssembledDataWidth)[:AssembledDataWidth]

	rec := internal.Record{
		AgeGroupPlace: data[SlotAgeGroupPlace],
		LastName:      data[SlotLastName],
		FirstName1:    data[SlotFirstName1],
		FirstName2:    data[SlotFirstName2],
		Gender:        genderCode(data[SlotGender]),
		FinishTime:    NormalizeTime(data[SlotFinishTime]),
		Document:      t.Document,
		Page:          t.Page,
		Row:           r + 1,
	}
	rec.OverallPlace, _ = util.ParseCount(data[SlotOverallPlace])
	rec.BibNumber, _ = util.ParseCount(data[SlotBib])

	if util.IsYear(data[SlotBirthYear]) {
		rec.BirthYear, _ = strconv.Atoi(data[SlotBirthYear])
	} else {
		flags |= internal.FlagBirthYearMissing
	}
	if rec.FinishTime == TimeSentinel {
		flags |= internal.FlagTimeSentinel
	}

	year, err := strconv.Atoi(util.FirstFourDigits(yearCell))
	switch {
	case t.Year == 0 && err == nil:
		rec.CompetitionYear = year
	case err != nil || year != t.Year:
		rec.CompetitionYear = t.Year
		flags |= internal.FlagYearMismatch
	default:
		rec.CompetitionYear = year
	}

	rec.Flags = flags
	return rec
}

func genderCode(v string) internal.Gender {
	switch internal.Gender(v) {
	case internal.GenderMale, internal.GenderFemale:
		return internal.Gender(v)
	default:
		return internal.GenderUnresolved
	}
}

// Assembler accumulates records of all tables of a run in encounter order.
type Assembler struct {
	records  []internal.Record
	warnings []internal.DocumentWarning
	bibs     map[int]map[int]string
}

func NewAssembler() *Assembler {
	return &Assembler{bibs: map[int]map[int]string{}}
}

// Append assembles t and adds its records. Padded rows and bibs already seen
// in the same competition year are reported as warnings.
func (a *Assembler) Append(t Table) []internal.Record {
	records := AssembleRecords(t)
	padded := 0
	for _, rec := range records {
		if rec.Flags.Has(internal.FlagPadded) {
			padded++
		}
		a.checkBib(rec)
	}
	if padded > 0 {
		a.warn(t, fmt.Sprintf("%d of %d rows padded with empty fields", padded, len(records)))
	}
	a.records = append(a.records, records...)
	return records
}

func (a *Assembler) checkBib(rec internal.Record) {
	if rec.BibNumber == 0 {
		return
	}
	seen, ok := a.bibs[rec.CompetitionYear]
	if !ok {
		seen = map[int]string{}
		a.bibs[rec.CompetitionYear] = seen
	}
	where := fmt.Sprintf("%s p.%d row %d", rec.Document, rec.Page, rec.Row)
	if first, dup := seen[rec.BibNumber]; dup {
		a.warnings = append(a.warnings, internal.DocumentWarning{
			Document: rec.Document,
			Page:     rec.Page,
			Message:  fmt.Sprintf("bib %d of %d appears again at row %d (first at %s)", rec.BibNumber, rec.CompetitionYear, rec.Row, first),
		})
		return
	}
	seen[rec.BibNumber] = where
}

func (a *Assembler) warn(t Table, msg string) {
	a.warnings = append(a.warnings, internal.DocumentWarning{Document: t.Document, Page: t.Page, Message: msg})
}

func (a *Assembler) Records() []internal.Record {
	return a.records
}

func (a *Assembler) Warnings() []internal.DocumentWarning {
	return a.warnings
}
