// Package category defines the closed set of bordereau sections searched for
// in each document.
package category

import (
	"errors"
	"fmt"
	"strings"
)

// Category is one bordereau section type
type Category struct {
	// Keyword is the literal token printed in the section title.
	Keyword string `json:"keyword" yaml:"keyword"`
	// Label is the human readable name, also accepted as a trigger.
	Label string `json:"label" yaml:"label"`
	// Publication marks the job-publication section whose pages carry a
	// metadata header and a "no candidacy" marker column.
	Publication bool `json:"publication,omitempty" yaml:"publication"`
}

// DisplayLabel returns the label, falling back to the keyword
func (c Category) DisplayLabel() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Keyword
}

// Registry is an immutable, ordered set of categories
type Registry struct {
	categories []Category
	byKeyword  map[string]int
}

// NewRegistry validates and indexes categories. Keywords must be non-empty
// and unique; order is preserved.
func NewRegistry(categories []Category) (*Registry, error) {
	if len(categories) == 0 {
		return nil, errors.New("category list cannot be empty")
	}

	r := &Registry{
		categories: make([]Category, len(categories)),
		byKeyword:  make(map[string]int, len(categories)),
	}
	for i, c := range categories {
		c.Keyword = strings.TrimSpace(c.Keyword)
		c.Label = strings.TrimSpace(c.Label)
		if c.Keyword == "" {
			return nil, fmt.Errorf("category %d has an empty keyword", i)
		}
		if _, dup := r.byKeyword[c.Keyword]; dup {
			return nil, fmt.Errorf("duplicate category keyword %q", c.Keyword)
		}
		r.categories[i] = c
		r.byKeyword[c.Keyword] = i
	}
	return r, nil
}

// Default returns the registry of the thirteen standard bordereaux
func Default() *Registry {
	r, err := NewRegistry(Defaults())
	if err != nil {
		panic(err)
	}
	return r
}

// Defaults returns the standard bordereau table in document order
func Defaults() []Category {
	return []Category{
		{Keyword: "Bordereau A1 n", Label: "Admissions au stage statutaire"},
		{Keyword: "Bordereau I2 n", Label: "Suivis au stage statutaire"},
		{Keyword: "Bordereau A3 n", Label: "Titularisations"},
		{Keyword: "Bordereau A4 n", Label: "Reclassements"},
		{Keyword: "Bordereau A5 n", Label: "Publications - examen des candidatures", Publication: true},
		{Keyword: "Bordereau A50 n", Label: "Nominations suite aux publications de postes"},
		{Keyword: "Bordereau A6 n", Label: "Mutations individuelles"},
		{Keyword: "Bordereau A6 bis n", Label: "Mutations collectives"},
		{Keyword: "Bordereau A7 n", Label: "Avancement"},
		{Keyword: "Bordereau A7 bis n", Label: "Avancement AIC"},
		{Keyword: "Bordereau A7 ter n", Label: "Reconnaissances individuelles au choix"},
		{Keyword: "Bordereau I8 n", Label: "Services civils"},
		{Keyword: "Bordereau A9 n", Label: "Requêtes individuelles"},
	}
}

// All returns a copy of the categories in registry order
func (r *Registry) All() []Category {
	return append([]Category(nil), r.categories...)
}

// Len returns the number of categories
func (r *Registry) Len() int {
	return len(r.categories)
}

// Lookup finds a category by keyword
func (r *Registry) Lookup(keyword string) (Category, bool) {
	i, ok := r.byKeyword[keyword]
	if !ok {
		return Category{}, false
	}
	return r.categories[i], true
}

// Label returns the display label for keyword, or keyword itself when unknown
func (r *Registry) Label(keyword string) string {
	if c, ok := r.Lookup(keyword); ok {
		return c.DisplayLabel()
	}
	return keyword
}
