package extract

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	pdf "github.com/ledongthuc/pdf"
)

const defaultColumnGap = 8.0

// PDFExtractor rebuilds table rows from glyph positions. Glyphs on one
// baseline form a row; a horizontal gap wider than ColumnGap starts a new
// cell.
type PDFExtractor struct {
	ColumnGap float64
}

func (e PDFExtractor) Extract(ctx context.Context, path string) ([][][]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pages := make([][][]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, rowsToCells(rows, e.gap()))
	}
	return pages, nil
}

func (e PDFExtractor) gap() float64 {
	if e.ColumnGap <= 0 {
		return defaultColumnGap
	}
	return e.ColumnGap
}

// rowsToCells orders rows top to bottom and splits each into cells.
func rowsToCells(rows pdf.Rows, columnGap float64) [][]string {
	sorted := make(pdf.Rows, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sorted = append(sorted, row)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position > sorted[j].Position })

	out := make([][]string, 0, len(sorted))
	for _, row := range sorted {
		if cells := splitRow(row.Content, columnGap); len(cells) > 0 {
			out = append(out, cells)
		}
	}
	return out
}

func splitRow(content pdf.TextHorizontal, columnGap float64) []string {
	texts := append(pdf.TextHorizontal(nil), content...)
	sort.Stable(texts)

	cells := []string{}
	var b strings.Builder
	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			cells = append(cells, s)
		}
		b.Reset()
	}

	end := 0.0
	for i, t := range texts {
		if i > 0 {
			gap := t.X - end
			switch {
			case gap > columnGap:
				flush()
			case gap > wordGap(t):
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
		if right := t.X + width(t); right > end || i == 0 {
			end = right
		}
	}
	flush()
	return cells
}

func width(t pdf.Text) float64 {
	if t.W > 0 {
		return t.W
	}
	return t.FontSize * 0.5 * float64(utf8.RuneCountInString(t.S))
}

func wordGap(t pdf.Text) float64 {
	if t.FontSize > 0 {
		return t.FontSize * 0.2
	}
	return 1.5
}
