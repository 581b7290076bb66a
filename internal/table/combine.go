package table

import (
	"fmt"
	"slices"
)

// MakeUnique suffixes repeated names with a counter: name, name_1, name_2.
// Generated names never collide with any name of the input.
func MakeUnique(columns []string) []string {
	original := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		original[c] = struct{}{}
	}

	assigned := make(map[string]struct{}, len(columns))
	next := make(map[string]int)
	out := make([]string, len(columns))
	for i, c := range columns {
		name := c
		if _, dup := assigned[name]; dup {
			n := max(next[c], 1)
			for {
				name = fmt.Sprintf("%s_%d", c, n)
				n++
				_, inOriginal := original[name]
				_, inAssigned := assigned[name]
				if !inOriginal && !inAssigned {
					break
				}
			}
			next[c] = n
		}
		assigned[name] = struct{}{}
		out[i] = name
	}
	return out
}

// Concat appends the rows of every table. The result's columns are the union
// of the input columns in first-seen order and cells a table lacks are
// filled with "". Tables with repeated column names can only be stacked when
// they all share the exact same header, otherwise ErrDuplicateColumns is
// returned. Ragged tables yield ErrRaggedTable.
func Concat(tables []*Table) (*Table, error) {
	if len(tables) == 0 {
		return &Table{}, nil
	}

	duplicates := false
	for i, t := range tables {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("table %d: %w", i, err)
		}
		duplicates = duplicates || t.HasDuplicateColumns()
	}

	if duplicates {
		for _, t := range tables[1:] {
			if !slices.Equal(t.Columns, tables[0].Columns) {
				return nil, fmt.Errorf("cannot align tables by name: %w", ErrDuplicateColumns)
			}
		}
		out := &Table{Columns: append([]string(nil), tables[0].Columns...)}
		for _, t := range tables {
			for _, row := range t.Rows {
				out.Rows = append(out.Rows, append([]string(nil), row...))
			}
		}
		return out, nil
	}

	out := &Table{}
	index := make(map[string]int)
	for _, t := range tables {
		for _, c := range t.Columns {
			if _, ok := index[c]; !ok {
				index[c] = len(out.Columns)
				out.Columns = append(out.Columns, c)
			}
		}
	}

	for _, t := range tables {
		positions := make([]int, len(t.Columns))
		for j, c := range t.Columns {
			positions[j] = index[c]
		}
		for _, row := range t.Rows {
			merged := make([]string, len(out.Columns))
			for j, cell := range row {
				merged[positions[j]] = cell
			}
			out.Rows = append(out.Rows, merged)
		}
	}
	return out, nil
}

// Harmonize stacks tables row by row without failing. Each table's header is
// made unique first; cells beyond a short header land in "col_<n>" columns
// and short rows are padded with "".
func Harmonize(tables []*Table) *Table {
	out := &Table{}
	index := make(map[string]int)
	column := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		index[name] = len(out.Columns)
		out.Columns = append(out.Columns, name)
		return index[name]
	}

	for _, t := range tables {
		if t == nil {
			continue
		}
		names := MakeUnique(t.Columns)
		for _, n := range names {
			column(n)
		}
		for _, row := range t.Rows {
			cells := make(map[int]string, len(row))
			for j, cell := range row {
				name := fmt.Sprintf("col_%d", j)
				if j < len(names) {
					name = names[j]
				}
				cells[column(name)] = cell
			}
			merged := make([]string, 0, len(out.Columns))
			for i := range out.Columns {
				merged = append(merged, cells[i])
			}
			out.Rows = append(out.Rows, merged)
		}
	}

	for i, row := range out.Rows {
		out.Rows[i] = padRow(row, len(out.Columns))
	}
	return out
}

// Largest returns the table with the most rows, the earliest one on ties.
func Largest(tables []*Table) *Table {
	var best *Table
	for _, t := range tables {
		if t != nil && (best == nil || t.Len() > best.Len()) {
			best = t
		}
	}
	if best == nil {
		return &Table{}
	}
	return best
}
