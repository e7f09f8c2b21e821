package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raceresults/internal"
	"raceresults/internal/rules"
)

func table(rows ...[]string) Table {
	return Table{Document: "2015_liste.pdf", Page: 1, Year: 2015, Rows: rows}
}

func TestSanitizeRows(t *testing.T) {
	in := table(
		[]string{"Stadtlauf", "10km"},
		[]string{"Platz", "Name", "Zeit"},
		[]string{"1 123 Mustermann Hans", "0:35:12"},
		[]string{"", ""},
	)
	out := SanitizeRows(in, []string{"10km"})
	assert.Equal(t, [][]string{{"1 123 Mustermann Hans", "0:35:12"}}, out.Rows)
	assert.Len(t, in.Rows, 4)

	kept := SanitizeRows(table([]string{"1 123 Mustermann Hans", "0:35:12"}), []string{"10km"})
	assert.Len(t, kept.Rows, 1)
}

func TestFuseIdentity(t *testing.T) {
	in := table(
		[]string{"1", "123", "Mustermann Hans 1975", "M40", "0:35:12"},
		[]string{"2", "", "Musterfrau Eva 1980", "W35", "0:36:40"},
	)
	out := FuseIdentity(in)
	assert.Equal(t, []string{"1 123 Mustermann Hans 1975", "M40", "0:35:12"}, out.Rows[0])
	assert.Equal(t, []string{"2 - Musterfrau Eva 1980", "W35", "0:36:40"}, out.Rows[1])

	untouched := table([]string{"1 123 Mustermann Hans", "M40"})
	assert.Equal(t, untouched.Rows, FuseIdentity(untouched).Rows)
}

func TestTagYear(t *testing.T) {
	out := TagYear(table([]string{"a"}, []string{"b", "c"}))
	assert.Equal(t, [][]string{{"a", "2015"}, {"b", "c", "2015"}}, out.Rows)
}

func TestCorrectNamesIdempotent(t *testing.T) {
	rs, err := rules.Default()
	require.NoError(t, err)

	in := table([]string{"12 MÃ¼ller von der Heide Hans", "M40"}, []string{"13 Weiter Eva", "Weiter"})
	once := CorrectNames(in, rs)
	twice := CorrectNames(once, rs)

	assert.Equal(t, "12 Müller von-der-Heide Hans", once.Rows[0][0])
	assert.Equal(t, "13 Weiler Eva", once.Rows[1][0])
	assert.Equal(t, "Weiter", once.Rows[1][1])
	assert.Equal(t, once.Rows, twice.Rows)

	var cells [][]string
	for _, a := range rs.Rules {
		for _, b := range rs.Rules {
			cells = append(cells,
				[]string{a.Pattern + " " + b.Replacement},
				[]string{a.Replacement + b.Pattern},
			)
		}
	}
	once = CorrectNames(table(cells...), rs)
	assert.Equal(t, once.Rows, CorrectNames(once, rs).Rows)
}

func TestSplitIdentityBirthYear(t *testing.T) {
	out := SplitIdentity(table([]string{"Mustermann Hans 1975", "M40", "2015"}))
	require.Len(t, out.Rows, 1)
	row := out.Rows[0]
	assert.Equal(t, "Mustermann", row[SlotLastName])
	assert.Equal(t, "Hans", row[SlotFirstName1])
	assert.Equal(t, "", row[SlotFirstName2])
	assert.Equal(t, "1975", row[SlotBirthYear])
	assert.Equal(t, []string{"M40", "2015"}, row[SlotBirthYear+1:])
}

func TestSplitIdentityBirthYearAllOrNothing(t *testing.T) {
	out := SplitIdentity(table(
		[]string{"Mustermann Hans 1975", "M40"},
		[]string{"Musterfrau Eva", "W35"},
	))
	assert.Equal(t, []string{"", "", "", "Mustermann", "Hans", "1975", "M40"}, out.Rows[0])
	assert.Equal(t, []string{"", "", "", "Musterfrau", "Eva", "", "W35"}, out.Rows[1])
}

func TestSplitIdentityRankTokens(t *testing.T) {
	out := SplitIdentity(table(
		[]string{"1 2 123 Muster Hans Peter Paul 1980", "M40"},
		[]string{"3 - 1.234 Beispiel Tom 1991", "M20"},
		[]string{"4 1 456 Kurz Ina 1990", "W30"},
	))
	assert.Equal(t, []string{"1", "2", "123", "Muster", "Hans", "Peter Paul", "1980", "M40"}, out.Rows[0])
	assert.Equal(t, []string{"3", "", "1.234", "Beispiel", "Tom", "", "1991", "M20"}, out.Rows[1])
	assert.Equal(t, []string{"4", "1", "456", "Kurz", "Ina", "", "1990", "W30"}, out.Rows[2])
}

func TestSplitIdentityRankLayoutFromFirstRow(t *testing.T) {
	out := SplitIdentity(table(
		[]string{"1 123 Mustermann Hans 1975", "M40"},
		[]string{"DNF 124 Musterfrau Eva 1980", "W35"},
		[]string{"456 Kurz 1990", "W30"},
	))
	assert.Equal(t, []string{"1", "", "123", "Mustermann", "Hans", "", "1975", "M40"}, out.Rows[0])
	assert.Equal(t, []string{"DNF", "", "124", "Musterfrau", "Eva", "", "1980", "W35"}, out.Rows[1])
	assert.Equal(t, []string{"456", "", "Kurz", "", "", "", "1990", "W30"}, out.Rows[2])
}

func TestSplitIdentityAfterFuseKeepsRankPositions(t *testing.T) {
	fused := FuseIdentity(table(
		[]string{"1", "123", "Mustermann Hans 1975", "M40"},
		[]string{"2", "", "Musterfrau Eva 1980", "W35"},
	))
	out := SplitIdentity(fused)
	assert.Equal(t, []string{"2", "", "", "Musterfrau", "Eva", "", "1980", "W35"}, out.Rows[1])
}

func TestAlignColumnsInsertsBeforeYearLikeCell(t *testing.T) {
	in := table(
		[]string{"", "", "123", "Mustermann", "Hans", "", "1978XY", "0:35:12", "2015"},
		[]string{"", "", "124", "Musterfrau", "Eva", "", "1980", "0:36:40", "2015"},
	)
	out := AlignColumns(in)
	assert.Equal(t, []string{"", "", "123", "Mustermann", "Hans", "", "", "1978XY", "0:35:12", "2015"}, out.Rows[0])
	assert.Len(t, out.Rows[1], 10)
	assert.Equal(t, "1980", out.Rows[1][7])
	assert.Len(t, in.Rows[0], 9)
}

func TestAlignColumnsIgnoresYearTag(t *testing.T) {
	in := table([]string{"", "", "123", "Mustermann", "Hans", "", "M40", "0:35:12", "2015"})
	assert.Equal(t, in.Rows, AlignColumns(in).Rows)
}

func TestCompactColumnsSplitsFusedBirthYear(t *testing.T) {
	in := table([]string{"", "", "123", "Mustermann", "Hans", "", "", "1978M40", "0:35:12", "2015"})
	out := CompactColumns(in)
	assert.Equal(t, []string{"", "", "123", "Mustermann", "Hans", "", "1978", "M40", "0:35:12", "2015"}, out.Rows[0])
}

func TestCompactColumnsDropsEmptyCategory(t *testing.T) {
	in := table(
		[]string{"", "", "123", "Mustermann", "Hans", "", "1975", "", "0:35:12", "2015"},
		[]string{"", "", "124", "Musterfrau", "Eva", "", "1980", "", "0:36:40", "2015"},
	)
	out := CompactColumns(in)
	assert.Equal(t, []string{"", "", "123", "Mustermann", "Hans", "", "1975", "0:35:12", "2015"}, out.Rows[0])
	assert.Len(t, out.Rows[1], 9)
}

func TestCoerceTypes(t *testing.T) {
	out, err := CoerceTypes(table([]string{"12.", "3", "1.234", "Muster", "Hans", "", "19756", "M40"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"12", "3", "1234", "Muster", "Hans", "", "1975", "M40"}, out.Rows[0])

	out, err = CoerceTypes(table([]string{"", "", "", "Muster"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"", "", "", "Muster"}, out.Rows[0])
}

func TestCoerceTypesRejectsNonNumericBib(t *testing.T) {
	_, err := CoerceTypes(table(
		[]string{"1", "", "123", "Muster"},
		[]string{"2", "", "12a", "Beispiel"},
	))
	require.Error(t, err)

	var ce *CoercionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 2, ce.Row)
	assert.Equal(t, "Startnummer", ce.Field)
	assert.Equal(t, "12a", ce.Value)
	assert.Equal(t, "2015_liste.pdf", ce.Document)
}

func TestNormalizeTime(t *testing.T) {
	cases := map[string]string{
		"01:05:30":     "01:05:30",
		"1:05:30":      "1:05:30",
		"05:30":        "00:05:30",
		"Zeit 41:05 *": "00:41:05",
		"5:30":         TimeSentinel,
		"DNF":          TimeSentinel,
		"":             TimeSentinel,
		"1:75:00":      TimeSentinel,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeTime(in), in)
	}
}

func TestResolveTrailingColumns(t *testing.T) {
	in := table(
		[]string{"", "", "123", "Mustermann", "Hans", "", "1975", "7", "05:30", "2015"},
		[]string{"", "", "124", "Kurz"},
	)
	out := ResolveTrailingColumns(in)
	assert.Equal(t, []string{"", "", "123", "Mustermann", "Hans", "", "1975", "7", "00:05:30", "2015"}, out.Rows[0])
	assert.Len(t, out.Rows[1], CanonicalWidth)
	assert.Equal(t, TimeSentinel, out.Rows[1][SlotFinishTime])
	assert.Equal(t, "Kurz", out.Rows[1][SlotCompetitionYear])
	assert.Equal(t, []bool{false, true}, out.Padded)
	assert.False(t, out.RowPadded(0))
	assert.True(t, out.RowPadded(1))
}

func TestResolveTrailingColumnsUsesTagWithoutYearColumn(t *testing.T) {
	in := table([]string{"", "", "123", "Muster", "Hans", "", "1975", "M40", "0:35:12", "Jahr"})
	out := ResolveTrailingColumns(in)
	assert.Equal(t, "Jahr", out.Rows[0][SlotCompetitionYear])
	assert.Equal(t, "0:35:12", out.Rows[0][SlotFinishTime])
}

func TestInferGender(t *testing.T) {
	assert.Equal(t, internal.GenderMale, InferGender("M40"))
	assert.Equal(t, internal.GenderFemale, InferGender("W50"))
	assert.Equal(t, internal.GenderUnresolved, InferGender("AK"))
	assert.Equal(t, internal.GenderUnresolved, InferGender("7"))
	assert.Equal(t, internal.GenderMale, InferGender("MW"))
}

func TestApplyGender(t *testing.T) {
	out := ApplyGender(table(
		[]string{"", "", "1", "A", "B", "", "1975", "W35", "0:35:12", "2015"},
		[]string{"", "", "2"},
	))
	assert.Equal(t, "w", out.Rows[0][SlotGender])
	assert.Equal(t, "", out.Rows[1][SlotGender])
	assert.Len(t, out.Rows[1], SlotGender+1)
}
