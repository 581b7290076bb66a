// Package extractor pulls raw table grids for one category out of a
// document's pages.
package extractor

import (
	"log/slog"

	"github.com/esClymax/Appli-Extraction/internal/category"
	"github.com/esClymax/Appli-Extraction/internal/metadata"
	"github.com/esClymax/Appli-Extraction/internal/pdf"
	"github.com/esClymax/Appli-Extraction/internal/pdf/pagerange"
	"github.com/esClymax/Appli-Extraction/internal/table"
)

// Extractor turns page tables into provisional-header tables
type Extractor struct {
	logger *slog.Logger
}

// New creates an Extractor
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract returns one table per grid found on the pages covered by tokens.
// Pages beyond the document end are skipped and grids with at most one row
// are dropped. For publication categories every table gets the page's
// metadata columns appended, with the same values on every row.
//
// A malformed token yields a *pagerange.FormatError. A failure of the
// extraction primitive on any page discards every table of the category:
// the result is empty and the *pdf.ExtractionError is returned for logging.
func (e *Extractor) Extract(src pdf.Source, tokens []string, cat category.Category) ([]*table.Table, error) {
	pages, err := pagerange.ParseTokens(tokens)
	if err != nil {
		return nil, err
	}

	var tables []*table.Table
	for _, page := range pages {
		if page > src.PageCount() {
			continue
		}

		grids, err := src.PageTables(page)
		if err != nil {
			e.logger.Warn("table extraction failed, discarding category",
				"document", src.Name(), "category", cat.Keyword, "page", page, "error", err)
			return nil, err
		}

		var record *metadata.Record
		for _, grid := range grids {
			if len(grid) <= 1 {
				continue
			}
			t := table.FromGrid(grid)

			if cat.Publication {
				if record == nil {
					text, err := src.PageText(page)
					if err != nil {
						e.logger.Warn("metadata text extraction failed, discarding category",
							"document", src.Name(), "category", cat.Keyword, "page", page, "error", err)
						return nil, err
					}
					record = metadata.Parse(text)
				}
				t = attachMetadata(t, record)
			}
			tables = append(tables, t)
		}
	}

	e.logger.Debug("tables extracted", "document", src.Name(), "category", cat.Keyword,
		"pages", len(pages), "tables", len(tables))
	return tables, nil
}

// attachMetadata appends the metadata columns, repeating the record's
// values on every row.
func attachMetadata(t *table.Table, record *metadata.Record) *table.Table {
	values := record.Values()
	out := &table.Table{
		Columns: append(append([]string(nil), t.Columns...), metadata.Names()...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append(append(make([]string, 0, len(out.Columns)), row...), values...)
	}
	return out
}
