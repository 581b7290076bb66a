// Package locator finds the pages on which each bordereau category appears.
package locator

import (
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/esClymax/Appli-Extraction/internal/category"
	"github.com/esClymax/Appli-Extraction/internal/pdf"
	"github.com/esClymax/Appli-Extraction/internal/pdf/pagerange"
)

// PageMap maps a category keyword to the page-range tokens where it was
// found. Every category of the registry has an entry; an empty slice means
// the category is absent from the document.
type PageMap map[string][]string

// Found returns the categories with at least one page, in registry order
func (m PageMap) Found(registry *category.Registry) []category.Category {
	var found []category.Category
	for _, c := range registry.All() {
		if len(m[c.Keyword]) > 0 {
			found = append(found, c)
		}
	}
	return found
}

// Locator scans page text for category keywords and labels
type Locator struct {
	registry *category.Registry
	logger   *slog.Logger
}

// New creates a Locator for the given categories
func New(registry *category.Registry, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Locator{registry: registry, logger: logger}
}

type needle struct {
	keyword string
	terms   []string
}

// Fold normalizes text for case-insensitive French matching
func Fold(s string) string {
	return cases.Lower(language.French).String(norm.NFC.String(s))
}

// Locate reads every page once and records, per category, the pages whose
// text contains the keyword or the label. Pages with empty text are skipped.
// If reading any page fails the whole scan is discarded: the returned map
// is empty for every category and the error is returned for logging.
func (l *Locator) Locate(src pdf.Source) (PageMap, error) {
	needles := make([]needle, 0, l.registry.Len())
	for _, c := range l.registry.All() {
		n := needle{keyword: c.Keyword, terms: []string{Fold(c.Keyword)}}
		if c.Label != "" {
			n.terms = append(n.terms, Fold(c.Label))
		}
		needles = append(needles, n)
	}

	matches := make(map[string][]int, len(needles))
	for page := 1; page <= src.PageCount(); page++ {
		text, err := src.PageText(page)
		if err != nil {
			l.logger.Warn("page text extraction failed, discarding category scan",
				"document", src.Name(), "page", page, "error", err)
			return l.empty(), err
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		folded := Fold(text)
		for _, n := range needles {
			for _, term := range n.terms {
				if strings.Contains(folded, term) {
					matches[n.keyword] = append(matches[n.keyword], page)
					break
				}
			}
		}
	}

	result := l.empty()
	for keyword, pages := range matches {
		result[keyword] = pagerange.GroupConsecutive(pages)
	}

	l.logger.Debug("category scan complete", "document", src.Name(), "pages", src.PageCount(),
		"categories_found", len(matches))
	return result, nil
}

func (l *Locator) empty() PageMap {
	m := make(PageMap, l.registry.Len())
	for _, c := range l.registry.All() {
		m[c.Keyword] = []string{}
	}
	return m
}
