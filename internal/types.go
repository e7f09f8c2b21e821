package internal

import "strings"

// RawTable is one extracted page: a ragged grid of text cells tagged with the
// competition year of its source document.
type RawTable struct {
	Document string
	Page     int
	Year     int
	Rows     [][]string
}

type Gender string

const (
	GenderMale       Gender = "m"
	GenderFemale     Gender = "w"
	GenderUnresolved Gender = ""
)

// Flag marks a record field that was derived from a degrade path rather than
// from source content.
type Flag uint16

const (
	FlagPadded Flag = 1 << iota
	FlagTimeSentinel
	FlagBirthYearMissing
	FlagBirthYearOverridden
	FlagYearMismatch
)

var flagNames = []struct {
	flag Flag
	name string
}{
	{FlagPadded, "padded"},
	{FlagTimeSentinel, "time_sentinel"},
	{FlagBirthYearMissing, "birth_year_missing"},
	{FlagBirthYearOverridden, "birth_year_overridden"},
	{FlagYearMismatch, "year_mismatch"},
}

func (f Flag) Has(other Flag) bool {
	return f&other != 0
}

func (f Flag) String() string {
	parts := make([]string, 0, len(flagNames))
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, ",")
}

func ParseFlags(s string) Flag {
	var out Flag
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		for _, fn := range flagNames {
			if fn.name == part {
				out |= fn.flag
			}
		}
	}
	return out
}

// Record is one normalized result row. The first ten fields are the export
// schema; Document, Page, Row and Flags are audit data.
type Record struct {
	OverallPlace    int
	AgeGroupPlace   string
	BibNumber       int
	LastName        string
	FirstName1      string
	FirstName2      string
	BirthYear       int
	Gender          Gender
	FinishTime      string
	CompetitionYear int

	Document string
	Page     int
	Row      int
	Flags    Flag
}

type DocumentWarning struct {
	Document string
	Page     int
	Message  string
}

type RunSummary struct {
	ID         string
	StartedAt  string
	FinishedAt string
	InputDir   string
	Documents  int
	Skipped    int
	Records    int
	Warnings   int
	DurationMs int64
}
