// Package table holds the string grid shared by every stage of the
// extraction pipeline, together with the header repair, cleaning and
// row-wise concatenation operations applied to it.
package table

import (
	"errors"
	"fmt"
)

// Leading columns injected by the assembler and kept first by consolidation.
const (
	ColumnDocument = "Document"
	ColumnCategory = "Catégorie"
	ColumnName     = "Nom & Prénom"
)

// PriorityColumns is the fixed leading column order of every dataset.
var PriorityColumns = []string{ColumnDocument, ColumnCategory, ColumnName}

var (
	// ErrDuplicateColumns is returned when tables with repeated column names
	// cannot be aligned by name.
	ErrDuplicateColumns = errors.New("duplicate column names")
	// ErrRaggedTable is returned when a row does not have one cell per column.
	ErrRaggedTable = errors.New("row width does not match column count")
)

// Table is a headered grid of string cells. Missing cells are represented by
// the empty string.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// New builds a table from a header and rows. Slices are not copied.
func New(columns []string, rows [][]string) *Table {
	return &Table{Columns: columns, Rows: rows}
}

// FromGrid treats the first grid row as the header. Rows are padded to the
// widest row so the result is rectangular.
func FromGrid(grid [][]string) *Table {
	if len(grid) == 0 {
		return &Table{}
	}

	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}

	padded := make([][]string, len(grid))
	for i, row := range grid {
		padded[i] = padRow(row, width)
	}

	return &Table{Columns: padded[0], Rows: padded[1:]}
}

func padRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

// Width returns the number of columns
func (t *Table) Width() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// Len returns the number of data rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// IsEmpty reports whether the table has no rows or no columns
func (t *Table) IsEmpty() bool {
	return t.Len() == 0 || t.Width() == 0
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = append([]string(nil), row...)
	}
	return &Table{Columns: append([]string(nil), t.Columns...), Rows: rows}
}

// ColumnIndex returns the index of the first column called name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at row, col or "" when the row is short.
func (t *Table) Cell(row, col int) string {
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Validate checks that every row has exactly one cell per column.
func (t *Table) Validate() error {
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d cells for %d columns: %w", i, len(row), len(t.Columns), ErrRaggedTable)
		}
	}
	return nil
}

// HasDuplicateColumns reports whether a column name occurs more than once.
func (t *Table) HasDuplicateColumns() bool {
	seen := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		if _, ok := seen[c]; ok {
			return true
		}
		seen[c] = struct{}{}
	}
	return false
}

// InsertColumn inserts a column at index filled with value.
func (t *Table) InsertColumn(index int, name, value string) {
	if index < 0 || index > len(t.Columns) {
		index = len(t.Columns)
	}

	t.Columns = insertAt(t.Columns, index, name)
	for i, row := range t.Rows {
		row = padRow(row, len(t.Columns)-1)
		t.Rows[i] = insertAt(row, index, value)
	}
}

func insertAt(s []string, index int, v string) []string {
	s = append(s, "")
	copy(s[index+1:], s[index:])
	s[index] = v
	return s
}

// FilterRows keeps the rows for which keep returns true.
func (t *Table) FilterRows(keep func(row []string) bool) {
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		if keep(row) {
			kept = append(kept, row)
		}
	}
	t.Rows = kept
}

// Reorder moves the priority columns that are present to the front, in the
// given order. Remaining columns keep their relative order.
func (t *Table) Reorder(priority []string) *Table {
	order := make([]int, 0, len(t.Columns))
	used := make([]bool, len(t.Columns))

	for _, name := range priority {
		if i := t.ColumnIndex(name); i >= 0 && !used[i] {
			order = append(order, i)
			used[i] = true
		}
	}
	for i := range t.Columns {
		if !used[i] {
			order = append(order, i)
		}
	}

	out := &Table{Columns: make([]string, len(order)), Rows: make([][]string, len(t.Rows))}
	for j, i := range order {
		out.Columns[j] = t.Columns[i]
	}
	for r := range t.Rows {
		row := make([]string, len(order))
		for j, i := range order {
			row[j] = t.Cell(r, i)
		}
		out.Rows[r] = row
	}
	return out
}
