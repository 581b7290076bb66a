package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeUnique(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"no duplicates", []string{"a", "b"}, []string{"a", "b"}},
		{"repeated", []string{"a", "a", "a"}, []string{"a", "a_1", "a_2"}},
		{"suffix already taken", []string{"a", "a_1", "a"}, []string{"a", "a_1", "a_2"}},
		{"suffix taken later", []string{"a", "a", "a_1"}, []string{"a", "a_2", "a_1"}},
		{"empty names", []string{"", ""}, []string{"", "_1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MakeUnique(tt.input))
		})
	}
}

func TestConcat_UnionByName(t *testing.T) {
	a := New([]string{"Nom", "Grade"}, [][]string{{"Dupont", "A"}})
	b := New([]string{"Grade", "Service"}, [][]string{{"B", "RH"}, {"C", "IT"}})

	out, err := Concat([]*Table{a, b})
	require.NoError(t, err)

	assert.Equal(t, []string{"Nom", "Grade", "Service"}, out.Columns)
	assert.Equal(t, [][]string{
		{"Dupont", "A", ""},
		{"", "B", "RH"},
		{"", "C", "IT"},
	}, out.Rows)
}

func TestConcat_DuplicateColumns(t *testing.T) {
	same := []string{"x", "x"}
	out, err := Concat([]*Table{
		New(same, [][]string{{"1", "2"}}),
		New(same, [][]string{{"3", "4"}}),
	})
	require.NoError(t, err)
	assert.Len(t, out.Rows, 2)

	_, err = Concat([]*Table{
		New([]string{"x", "x"}, [][]string{{"1", "2"}}),
		New([]string{"x", "y"}, [][]string{{"3", "4"}}),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateColumns))
}

func TestConcat_Ragged(t *testing.T) {
	_, err := Concat([]*Table{New([]string{"a"}, [][]string{{"1", "2"}})})
	assert.True(t, errors.Is(err, ErrRaggedTable))
}

func TestConcat_Empty(t *testing.T) {
	out, err := Concat(nil)
	require.NoError(t, err)
	assert.True(t, out.IsEmpty())
}

func TestHarmonize(t *testing.T) {
	out := Harmonize([]*Table{
		New([]string{"x", "x"}, [][]string{{"1", "2"}}),
		New([]string{"x", "y"}, [][]string{{"3", "4", "5"}, {"6"}}),
		nil,
	})

	assert.Equal(t, []string{"x", "x_1", "y", "col_2"}, out.Columns)
	assert.Equal(t, [][]string{
		{"1", "2", "", ""},
		{"3", "", "4", "5"},
		{"6", "", "", ""},
	}, out.Rows)
}

func TestLargest(t *testing.T) {
	small := New([]string{"a"}, [][]string{{"1"}})
	big := New([]string{"b"}, [][]string{{"1"}, {"2"}})
	tie := New([]string{"c"}, [][]string{{"1"}, {"2"}})

	assert.Same(t, big, Largest([]*Table{small, big, tie}))
	assert.True(t, Largest(nil).IsEmpty())
}
