// Package extract turns result-list documents into raw, ragged tables, one
// per page. It knows nothing about the record schema.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"raceresults/internal"
)

var reYearPrefix = regexp.MustCompile(`^(\d{4})`)

// Extractor reads every page of one document as a grid of text cells.
type Extractor interface {
	Extract(ctx context.Context, path string) ([][][]string, error)
}

type Options struct {
	// PDFColumnGap is the horizontal distance in points that separates two
	// cells of a PDF text row.
	PDFColumnGap float64
}

// Document is one input file with the competition year taken from its name.
type Document struct {
	Path string
	Name string
	Year int
}

// Discover lists the documents of dir whose name starts with a four-digit
// year and has a supported extension, ordered by year, then name.
func Discover(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	out := []Document{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		m := reYearPrefix.FindStringSubmatch(name)
		if m == nil || !Supported(name) {
			continue
		}
		year, _ := strconv.Atoi(m[1])
		out = append(out, Document{Path: filepath.Join(dir, name), Name: name, Year: year})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".html", ".htm", ".xlsx":
		return true
	default:
		return false
	}
}

// ForPath picks the extractor for a file extension.
func ForPath(path string, opts Options) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return PDFExtractor{ColumnGap: opts.PDFColumnGap}, nil
	case ".html", ".htm":
		return HTMLExtractor{}, nil
	case ".xlsx":
		return XLSXExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported document type: %s", filepath.Ext(path))
	}
}

// ExtractDocument extracts doc and tags every page with its year. A panic inside a
// parser is returned as an error so one broken file cannot stop a run.
func ExtractDocument(ctx context.Context, doc Document, opts Options) (tables []internal.RawTable, err error) {
	ex, err := ForPath(doc.Path, opts)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			tables = nil
			err = fmt.Errorf("extract %s: %v", doc.Name, r)
		}
	}()

	pages, err := ex.Extract(ctx, doc.Path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", doc.Name, err)
	}

	tables = make([]internal.RawTable, 0, len(pages))
	for i, rows := range pages {
		if len(rows) == 0 {
			continue
		}
		tables = append(tables, internal.RawTable{
			Document: doc.Name,
			Page:     i + 1,
			Year:     doc.Year,
			Rows:     rows,
		})
	}
	return tables, nil
}
