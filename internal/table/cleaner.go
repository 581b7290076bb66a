package table

import (
	"fmt"
	"regexp"
	"strings"
)

// Substitution is one regular expression replacement. Replacement uses Go
// regexp expansion syntax ($1, ${name}).
type Substitution struct {
	Pattern     string `json:"pattern" yaml:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement"`
}

// ColumnRule lists the substitutions applied, in order, to one column.
type ColumnRule struct {
	Column        string         `json:"column" yaml:"column"`
	Substitutions []Substitution `json:"substitutions" yaml:"substitutions"`
}

// Rules configures a Cleaner
type Rules struct {
	RemoveEmptyRows    bool         `json:"remove_empty_rows" yaml:"remove_empty_rows"`
	RemoveEmptyColumns bool         `json:"remove_empty_columns" yaml:"remove_empty_columns"`
	StripWhitespace    bool         `json:"strip_whitespace" yaml:"strip_whitespace"`
	RegexPatterns      []ColumnRule `json:"regex_patterns" yaml:"-"`
}

// DefaultRules enables every pruning step and defines no substitutions.
func DefaultRules() Rules {
	return Rules{
		RemoveEmptyRows:    true,
		RemoveEmptyColumns: true,
		StripWhitespace:    true,
	}
}

type compiledRule struct {
	column string
	re     *regexp.Regexp
	repl   string
}

// Cleaner prunes empty rows and columns, trims cells and applies per-column
// regex substitutions.
type Cleaner struct {
	rules    Rules
	compiled []compiledRule
}

// NewCleaner compiles the substitution patterns of rules.
func NewCleaner(rules Rules) (*Cleaner, error) {
	c := &Cleaner{rules: rules}
	for _, cr := range rules.RegexPatterns {
		for _, sub := range cr.Substitutions {
			re, err := regexp.Compile(sub.Pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q for column %q: %w", sub.Pattern, cr.Column, err)
			}
			c.compiled = append(c.compiled, compiledRule{column: cr.Column, re: re, repl: sub.Replacement})
		}
	}
	return c, nil
}

// Rules returns the configuration the cleaner was built from
func (c *Cleaner) Rules() Rules {
	return c.rules
}

// isBlank is the emptiness test shared by row and column pruning. Cells made
// only of whitespace count as empty so that cleaning twice changes nothing.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Clean returns a cleaned copy of t. Nil or empty input is returned as is.
// Substitutions run before pruning so that a cell a rule blanks is pruned
// in the same pass, and whitespace is stripped on both sides of them.
func (c *Cleaner) Clean(t *Table) *Table {
	if t.IsEmpty() {
		return t
	}

	out := t.Clone()

	if c.rules.StripWhitespace {
		stripCells(out)
	}

	if len(c.compiled) > 0 {
		for _, rule := range c.compiled {
			for col, name := range out.Columns {
				if name != rule.column {
					continue
				}
				for _, row := range out.Rows {
					if col < len(row) {
						row[col] = rule.re.ReplaceAllString(row[col], rule.repl)
					}
				}
			}
		}
		if c.rules.StripWhitespace {
			stripCells(out)
		}
	}

	if c.rules.RemoveEmptyRows {
		out.FilterRows(func(row []string) bool {
			for _, cell := range row {
				if !isBlank(cell) {
					return true
				}
			}
			return false
		})
	}

	if c.rules.RemoveEmptyColumns {
		out = dropEmptyColumns(out)
	}

	return out
}

func stripCells(t *Table) {
	for _, row := range t.Rows {
		for j, cell := range row {
			row[j] = strings.TrimSpace(cell)
		}
	}
}

func dropEmptyColumns(t *Table) *Table {
	keep := make([]int, 0, len(t.Columns))
	for col := range t.Columns {
		for r := range t.Rows {
			if !isBlank(t.Cell(r, col)) {
				keep = append(keep, col)
				break
			}
		}
	}
	if len(keep) == len(t.Columns) {
		return t
	}

	out := &Table{Columns: make([]string, len(keep)), Rows: make([][]string, len(t.Rows))}
	for j, col := range keep {
		out.Columns[j] = t.Columns[col]
	}
	for r := range t.Rows {
		row := make([]string, len(keep))
		for j, col := range keep {
			row[j] = t.Cell(r, col)
		}
		out.Rows[r] = row
	}
	return out
}
