package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"raceresults/internal"
)

const (
	ResultSheet = "Ergebnisse"
	NoticeSheet = "Hinweise"
)

// ExportRecordsToXLSX writes records to the result sheet with a leading index
// column and the canonical headers. Record flags and document warnings go to
// the notice sheet.
func ExportRecordsToXLSX(records []internal.Record, warnings []internal.DocumentWarning, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ResultSheet); err != nil {
		return err
	}

	header := func(sheet string, headers []string) {
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			_ = f.SetCellValue(sheet, cell, h)
		}
	}

	header(ResultSheet, append([]string{""}, FieldNames[:]...))
	for i, rec := range records {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(ResultSheet, cell, value)
		}

		set(1, i)
		set(2, rec.OverallPlace)
		set(3, rec.AgeGroupPlace)
		set(4, rec.BibNumber)
		set(5, rec.LastName)
		set(6, rec.FirstName1)
		set(7, rec.FirstName2)
		set(8, blankZero(rec.BirthYear))
		set(9, string(rec.Gender))
		set(10, rec.FinishTime)
		set(11, rec.CompetitionYear)
	}

	if _, err := f.NewSheet(NoticeSheet); err != nil {
		return err
	}
	header(NoticeSheet, []string{"Zeile", "Dokument", "Seite", "Hinweis"})
	r := 2
	note := func(index any, document string, page any, msg string) {
		for col, value := range []any{index, document, page, msg} {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			_ = f.SetCellValue(NoticeSheet, cell, value)
		}
		r++
	}
	for i, rec := range records {
		if rec.Flags == 0 {
			continue
		}
		note(i, rec.Document, rec.Page, rec.Flags.String())
	}
	for _, w := range warnings {
		note("", w.Document, blankZero(w.Page), w.Message)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func blankZero(v int) any {
	if v == 0 {
		return ""
	}
	return v
}
