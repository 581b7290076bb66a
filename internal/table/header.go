package table

import (
	"regexp"
	"strings"
)

const unnamedPrefix = "unnamed:"

var headerWhitespace = regexp.MustCompile(`\s+`)

// IsUnnamed reports whether a header cell is a placeholder: blank, or an
// "Unnamed: N" label left by the table grid builder.
func IsUnnamed(header string) bool {
	trimmed := strings.TrimSpace(header)
	return trimmed == "" || strings.HasPrefix(strings.ToLower(trimmed), unnamedPrefix)
}

// CleanHeader replaces control whitespace with spaces, collapses runs of
// whitespace and trims the result.
func CleanHeader(header string) string {
	cleaned := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(header)
	cleaned = headerWhitespace.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// Repair names placeholder columns from their left neighbour and the first
// data row, then drops that row. A header wrapped over two text lines in the
// source form comes out as one merged name per column:
//
//	["Nom", "", "Unnamed: 2"] over ["Dupont", "A", "B"]
//	becomes ["Nom_Dupont", "Nom_A", "Nom_A_B"]
//
// The first placeholder of a consecutive run also renames its left neighbour
// with that neighbour's own first-row value. A placeholder in column 0 uses
// "col0" as its left name. Every header is passed through CleanHeader
// whether or not a repair happened. The input table is not modified.
func Repair(t *Table) *Table {
	out := t.Clone()
	if out == nil {
		return &Table{}
	}

	unnamed := make([]bool, len(out.Columns))
	anyUnnamed := false
	for i, c := range out.Columns {
		unnamed[i] = IsUnnamed(c)
		anyUnnamed = anyUnnamed || unnamed[i]
	}

	if anyUnnamed {
		first := func(col int) string {
			if len(out.Rows) == 0 {
				return ""
			}
			return strings.TrimSpace(out.Cell(0, col))
		}

		names := append([]string(nil), out.Columns...)
		for i := range names {
			if !unnamed[i] {
				continue
			}
			if i == 0 {
				names[0] = "col0_" + first(0)
				continue
			}

			leftName := names[i-1]
			if !unnamed[i-1] {
				names[i-1] = leftName + "_" + first(i-1)
			}
			names[i] = leftName + "_" + first(i)
		}

		out.Columns = names
		if len(out.Rows) > 0 {
			out.Rows = out.Rows[1:]
		}
	}

	for i, c := range out.Columns {
		out.Columns[i] = CleanHeader(c)
	}
	return out
}
