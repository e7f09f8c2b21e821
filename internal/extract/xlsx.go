package extract

import (
	"context"

	"github.com/xuri/excelize/v2"

	"raceresults/internal/util"
)

// XLSXExtractor reads every sheet of a workbook as one page.
type XLSXExtractor struct{}

func (XLSXExtractor) Extract(ctx context.Context, path string) ([][][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pages := [][][]string{}
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, err
		}
		out := make([][]string, 0, len(rows))
		for _, row := range rows {
			cells := util.NormalizeCells(row)
			if util.AnyCell(cells, func(c string) bool { return c != "" }) {
				out = append(out, cells)
			}
		}
		pages = append(pages, out)
	}
	return pages, nil
}
