package extract

import (
	"context"
	"os"

	"github.com/PuerkitoBio/goquery"

	"raceresults/internal/util"
)

// HTMLExtractor reads every <table> of a saved result page as one page.
type HTMLExtractor struct{}

func (HTMLExtractor) Extract(ctx context.Context, path string) ([][][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, err
	}

	pages := [][][]string{}
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		if ctx.Err() != nil {
			return
		}
		rows := [][]string{}
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := []string{}
			tr.Find("th,td").Each(func(_ int, td *goquery.Selection) {
				cells = append(cells, util.NormalizeSpaces(td.Text()))
			})
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
		})
		pages = append(pages, rows)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pages, nil
}
