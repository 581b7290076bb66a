// Package assembler turns the raw tables of one category of one document
// into a cleaned table carrying Document, Catégorie and Nom & Prénom columns.
package assembler

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/esClymax/Appli-Extraction/internal/category"
	"github.com/esClymax/Appli-Extraction/internal/extractor"
	"github.com/esClymax/Appli-Extraction/internal/locator"
	"github.com/esClymax/Appli-Extraction/internal/pdf"
	"github.com/esClymax/Appli-Extraction/internal/pdf/pagerange"
	"github.com/esClymax/Appli-Extraction/internal/table"
)

// NoCandidacy is the marker written in the name column of publication rows
// that received no application.
const NoCandidacy = "aucune candidature"

// noCandidacyColumn is the position of the marker in raw publication tables.
const noCandidacyColumn = 5

// DefaultNamePatterns recognise the person column, most specific first.
var DefaultNamePatterns = []string{
	`nom.*pr[eé]nom`,
	`pr[eé]nom.*nom`,
	`^nom$`,
	`nom`,
	`pr[eé]nom`,
	`identit[eé]`,
	`personne`,
}

// Result reports the outcome of assembling one category
type Result struct {
	Keyword       string       `json:"keyword"`
	Success       bool         `json:"success"`
	CategoryLabel string       `json:"category_label,omitempty"`
	Rows          int          `json:"rows,omitempty"`
	Cols          int          `json:"cols,omitempty"`
	Error         string       `json:"error,omitempty"`
	Table         *table.Table `json:"-"`
}

func failure(cat category.Category, format string, args ...any) Result {
	return Result{Keyword: cat.Keyword, Success: false, Error: fmt.Sprintf(format, args...)}
}

// Assembler runs extraction, repair, cleaning and the category post rules
type Assembler struct {
	extractor    *extractor.Extractor
	cleaner      *table.Cleaner
	namePatterns []*regexp.Regexp
	logger       *slog.Logger
}

// New creates an Assembler. A nil extractor or cleaner gets the defaults.
func New(ext *extractor.Extractor, cleaner *table.Cleaner, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	if ext == nil {
		ext = extractor.New(logger)
	}
	if cleaner == nil {
		cleaner, _ = table.NewCleaner(table.DefaultRules())
	}

	patterns := make([]*regexp.Regexp, len(DefaultNamePatterns))
	for i, p := range DefaultNamePatterns {
		patterns[i] = regexp.MustCompile(p)
	}

	return &Assembler{
		extractor:    ext,
		cleaner:      cleaner,
		namePatterns: patterns,
		logger:       logger,
	}
}

// Assemble builds the table of one category. Missing data is reported as an
// unsuccessful Result; the error return is reserved for malformed page
// ranges.
func (a *Assembler) Assemble(src pdf.Source, documentName string, cat category.Category, tokens []string) (Result, error) {
	log := a.logger.With("document", documentName, "category", cat.Keyword)

	raw, err := a.extractor.Extract(src, tokens, cat)
	if err != nil {
		var formatErr *pagerange.FormatError
		if errors.As(err, &formatErr) {
			return Result{}, err
		}
		return failure(cat, "extraction failed: %v", err), nil
	}
	if len(raw) == 0 {
		return failure(cat, "aucun tableau trouvé"), nil
	}

	var cleaned []*table.Table
	for _, t := range raw {
		t = a.cleaner.Clean(table.Repair(t))
		if !t.IsEmpty() {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return failure(cat, "tableaux vides après nettoyage"), nil
	}

	combined := table.Largest(cleaned)
	if len(cleaned) > 1 {
		merged, err := table.Concat(cleaned)
		if err != nil {
			log.Warn("table concatenation failed, keeping largest table", "tables", len(cleaned), "error", err)
		} else {
			combined = merged
		}
	}
	combined = combined.Clone()

	if cat.Publication {
		rewriteNoCandidacy(combined)
	}

	combined.FilterRows(func(row []string) bool {
		return len(row) > 0 && strings.TrimSpace(row[0]) != ""
	})
	if combined.Len() == 0 {
		return failure(cat, "aucune ligne exploitable"), nil
	}

	combined.InsertColumn(0, table.ColumnDocument, pdf.BaseName(documentName))
	combined.InsertColumn(1, table.ColumnCategory, cat.DisplayLabel())
	a.standardizeNameColumn(combined)

	log.Debug("category assembled", "rows", combined.Len(), "cols", combined.Width())
	return Result{
		Keyword:       cat.Keyword,
		Success:       true,
		CategoryLabel: cat.DisplayLabel(),
		Rows:          combined.Len(),
		Cols:          combined.Width(),
		Table:         combined,
	}, nil
}

// rewriteNoCandidacy moves the "aucune candidature" marker from the sixth
// column into the first one, where the name would otherwise be.
func rewriteNoCandidacy(t *table.Table) {
	if t.Width() <= noCandidacyColumn {
		return
	}
	for _, row := range t.Rows {
		if len(row) <= noCandidacyColumn {
			continue
		}
		if strings.ToLower(strings.TrimSpace(row[noCandidacyColumn])) == NoCandidacy {
			row[0] = NoCandidacy
			row[noCandidacyColumn] = ""
		}
	}
}

// standardizeNameColumn renames the first column matching a name pattern to
// "Nom & Prénom", or the third column when none matches.
func (a *Assembler) standardizeNameColumn(t *table.Table) {
	for i, col := range t.Columns {
		lower := locator.Fold(col)
		for _, re := range a.namePatterns {
			if re.MatchString(lower) {
				t.Columns[i] = table.ColumnName
				return
			}
		}
	}
	if t.Width() > 2 {
		t.Columns[2] = table.ColumnName
	}
}
