package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"raceresults/internal"
)

const lastRunKey = "last_run"

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  inputDir TEXT NOT NULL,
  startedAt TEXT NOT NULL,
  finishedAt TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS records (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId TEXT NOT NULL,
  seq INTEGER NOT NULL,
  overallPlace INTEGER NOT NULL,
  ageGroupPlace TEXT NOT NULL,
  bibNumber INTEGER NOT NULL,
  lastName TEXT NOT NULL,
  firstName1 TEXT NOT NULL,
  firstName2 TEXT NOT NULL,
  birthYear INTEGER NOT NULL,
  gender TEXT NOT NULL,
  finishTime TEXT NOT NULL,
  competitionYear INTEGER NOT NULL,
  document TEXT NOT NULL,
  page INTEGER NOT NULL,
  rowNo INTEGER NOT NULL,
  flags TEXT NOT NULL,
  UNIQUE(runId, seq),
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_records_year_bib ON records(competitionYear, bibNumber);

CREATE TABLE IF NOT EXISTS warnings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId TEXT NOT NULL,
  seq INTEGER NOT NULL,
  document TEXT NOT NULL,
  page INTEGER NOT NULL,
  message TEXT NOT NULL,
  FOREIGN KEY(runId) REFERENCES runs(id)
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// SaveRun stores a finished run with its records and warnings in one
// transaction and marks it as the latest run.
func (d *DB) SaveRun(run internal.RunSummary, records []internal.Record, warnings []internal.DocumentWarning) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	timingsJSON, _ := json.Marshal(map[string]int64{"totalMs": run.DurationMs})
	countsJSON, _ := json.Marshal(map[string]int{
		"documents": run.Documents,
		"skipped":   run.Skipped,
		"records":   run.Records,
		"warnings":  run.Warnings,
	})
	if _, err := tx.Exec(`
INSERT INTO runs (id, inputDir, startedAt, finishedAt, timingsJson, countsJson)
VALUES (?, ?, ?, ?, ?, ?)
`, run.ID, run.InputDir, run.StartedAt, run.FinishedAt, string(timingsJSON), string(countsJSON)); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	recStmt, err := tx.Prepare(`
INSERT INTO records (
  runId, seq, overallPlace, ageGroupPlace, bibNumber, lastName, firstName1, firstName2,
  birthYear, gender, finishTime, competitionYear, document, page, rowNo, flags
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer recStmt.Close()

	for i, r := range records {
		if _, err := recStmt.Exec(
			run.ID, i,
			r.OverallPlace, r.AgeGroupPlace, r.BibNumber, r.LastName, r.FirstName1, r.FirstName2,
			r.BirthYear, string(r.Gender), r.FinishTime, r.CompetitionYear,
			r.Document, r.Page, r.Row, r.Flags.String(),
		); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	for i, w := range warnings {
		if _, err := tx.Exec(`INSERT INTO warnings (runId, seq, document, page, message) VALUES (?, ?, ?, ?, ?)`, run.ID, i, w.Document, w.Page, w.Message); err != nil {
			return fmt.Errorf("insert warning %d: %w", i, err)
		}
	}

	if _, err := tx.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, lastRunKey, run.ID); err != nil {
		return err
	}

	return tx.Commit()
}

func (d *DB) ListRuns(limit int) ([]internal.RunSummary, error) {
	rows, err := d.conn.Query(`
SELECT id, inputDir, startedAt, finishedAt, timingsJson, countsJson
FROM runs
ORDER BY startedAt DESC, createdAt DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunSummary
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (d *DB) GetRun(id string) (*internal.RunSummary, error) {
	row := d.conn.QueryRow(`
SELECT id, inputDir, startedAt, finishedAt, timingsJson, countsJson
FROM runs WHERE id = ?
`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (internal.RunSummary, error) {
	var run internal.RunSummary
	var timingsJSON, countsJSON string
	if err := s.Scan(&run.ID, &run.InputDir, &run.StartedAt, &run.FinishedAt, &timingsJSON, &countsJSON); err != nil {
		return internal.RunSummary{}, err
	}

	var timings map[string]int64
	_ = json.Unmarshal([]byte(timingsJSON), &timings)
	run.DurationMs = timings["totalMs"]

	var counts map[string]int
	_ = json.Unmarshal([]byte(countsJSON), &counts)
	run.Documents = counts["documents"]
	run.Skipped = counts["skipped"]
	run.Records = counts["records"]
	run.Warnings = counts["warnings"]
	return run, nil
}

// LastRunID returns the id of the most recently saved run, or "" when the
// store is empty.
func (d *DB) LastRunID() (string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, lastRunKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (d *DB) GetRunRecords(runID string) ([]internal.Record, error) {
	rows, err := d.conn.Query(`
SELECT
  overallPlace, ageGroupPlace, bibNumber, lastName, firstName1, firstName2,
  birthYear, gender, finishTime, competitionYear, document, page, rowNo, flags
FROM records
WHERE runId = ?
ORDER BY seq ASC
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Record
	for rows.Next() {
		var r internal.Record
		var gender, flags string
		if err := rows.Scan(
			&r.OverallPlace,
			&r.AgeGroupPlace,
			&r.BibNumber,
			&r.LastName,
			&r.FirstName1,
			&r.FirstName2,
			&r.BirthYear,
			&gender,
			&r.FinishTime,
			&r.CompetitionYear,
			&r.Document,
			&r.Page,
			&r.Row,
			&flags,
		); err != nil {
			return nil, err
		}
		r.Gender = internal.Gender(gender)
		r.Flags = internal.ParseFlags(flags)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) GetRunWarnings(runID string) ([]internal.DocumentWarning, error) {
	rows, err := d.conn.Query(`SELECT document, page, message FROM warnings WHERE runId = ? ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.DocumentWarning
	for rows.Next() {
		var w internal.DocumentWarning
		if err := rows.Scan(&w.Document, &w.Page, &w.Message); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
