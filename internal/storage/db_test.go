package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raceresults/internal"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSaveAndLoadRun(t *testing.T) {
	db := openTemp(t)

	run := internal.RunSummary{
		ID:         "run-1",
		StartedAt:  "2024-05-01T10:00:00Z",
		FinishedAt: "2024-05-01T10:00:02Z",
		InputDir:   "./input",
		Documents:  2,
		Skipped:    1,
		Records:    2,
		Warnings:   1,
		DurationMs: 2000,
	}
	records := []internal.Record{
		{
			OverallPlace: 1, BibNumber: 123, LastName: "Mustermann", FirstName1: "Hans",
			BirthYear: 1975, Gender: internal.GenderMale, FinishTime: "00:35:12", CompetitionYear: 2015,
			Document: "2015_liste.pdf", Page: 1, Row: 1,
		},
		{
			OverallPlace: 2, BibNumber: 124, LastName: "Musterfrau", FirstName1: "Eva", FirstName2: "Maria",
			Gender: internal.GenderUnresolved, FinishTime: "00:00:00", CompetitionYear: 2015,
			Document: "2015_liste.pdf", Page: 1, Row: 2,
			Flags: internal.FlagTimeSentinel | internal.FlagBirthYearMissing,
		},
	}
	warnings := []internal.DocumentWarning{{Document: "2016_kaputt.pdf", Message: "extract failed"}}

	require.NoError(t, db.SaveRun(run, records, warnings))

	got, err := db.GetRun("run-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, run, *got)

	gotRecords, err := db.GetRunRecords("run-1")
	require.NoError(t, err)
	assert.Equal(t, records, gotRecords)

	gotWarnings, err := db.GetRunWarnings("run-1")
	require.NoError(t, err)
	assert.Equal(t, warnings, gotWarnings)

	last, err := db.LastRunID()
	require.NoError(t, err)
	assert.Equal(t, "run-1", last)
}

func TestListRunsNewestFirst(t *testing.T) {
	db := openTemp(t)

	last, err := db.LastRunID()
	require.NoError(t, err)
	assert.Empty(t, last)

	require.NoError(t, db.SaveRun(internal.RunSummary{ID: "a", StartedAt: "2024-01-01T00:00:00Z", FinishedAt: "2024-01-01T00:00:01Z"}, nil, nil))
	require.NoError(t, db.SaveRun(internal.RunSummary{ID: "b", StartedAt: "2024-02-01T00:00:00Z", FinishedAt: "2024-02-01T00:00:01Z"}, nil, nil))

	runs, err := db.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b", runs[0].ID)
	assert.Equal(t, "a", runs[1].ID)

	last, err = db.LastRunID()
	require.NoError(t, err)
	assert.Equal(t, "b", last)
}

func TestGetRunMissing(t *testing.T) {
	db := openTemp(t)
	run, err := db.GetRun("nope")
	require.NoError(t, err)
	assert.Nil(t, run)
}

func TestSaveRunDuplicateIDFails(t *testing.T) {
	db := openTemp(t)
	run := internal.RunSummary{ID: "dup", StartedAt: "2024-01-01T00:00:00Z", FinishedAt: "2024-01-01T00:00:00Z"}
	require.NoError(t, db.SaveRun(run, nil, nil))
	require.Error(t, db.SaveRun(run, []internal.Record{{BibNumber: 1}}, nil))

	records, err := db.GetRunRecords("dup")
	require.NoError(t, err)
	assert.Empty(t, records)
}
