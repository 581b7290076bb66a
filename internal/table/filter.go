package table

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter types
const (
	FilterContains = "contains"
	FilterEquals   = "equals"
	FilterNotEmpty = "not_empty"
	FilterRegex    = "regex"
)

// Filter keeps the rows whose Column value satisfies Type/Value.
type Filter struct {
	Column string `json:"column" yaml:"column"`
	Type   string `json:"type" yaml:"type"`
	Value  string `json:"value" yaml:"value"`
}

func (f Filter) predicate() (func(string) bool, error) {
	switch f.Type {
	case "", FilterContains:
		needle := strings.ToLower(f.Value)
		return func(v string) bool { return strings.Contains(strings.ToLower(v), needle) }, nil
	case FilterEquals:
		return func(v string) bool { return v == f.Value }, nil
	case FilterNotEmpty:
		return func(v string) bool { return !isBlank(v) }, nil
	case FilterRegex:
		re, err := regexp.Compile(`^(?:` + f.Value + `)`)
		if err != nil {
			return nil, fmt.Errorf("filter on %q: %w", f.Column, err)
		}
		return re.MatchString, nil
	default:
		return nil, fmt.Errorf("filter on %q: unknown type %q", f.Column, f.Type)
	}
}

// ApplyFilters returns a copy of t keeping only rows that pass every filter.
// Filters naming an absent column are ignored; invalid filters are skipped
// and reported in the returned error slice.
func ApplyFilters(t *Table, filters []Filter) (*Table, []error) {
	out := t.Clone()
	if out == nil {
		return &Table{}, nil
	}

	var skipped []error
	for _, f := range filters {
		col := out.ColumnIndex(f.Column)
		if col < 0 {
			continue
		}
		keep, err := f.predicate()
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		out.FilterRows(func(row []string) bool {
			if col >= len(row) {
				return keep("")
			}
			return keep(row[col])
		})
	}
	return out, skipped
}
