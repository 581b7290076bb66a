package pagerange

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToken(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected []int
	}{
		{"range", "12-15", []int{12, 13, 14, 15}},
		{"single page", "7", []int{7}},
		{"singleton range", "10-10", []int{10}},
		{"surrounding spaces", " 3 - 4 ", []int{3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := ParseToken(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, pages)
		})
	}
}

func TestParseToken_Errors(t *testing.T) {
	tokens := []string{"5-3", "abc", "1-x", "", "0", "2-"}

	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			_, err := ParseToken(token)
			require.Error(t, err)

			var formatErr *FormatError
			require.True(t, errors.As(err, &formatErr))
			assert.Equal(t, token, formatErr.Token)
		})
	}
}

func TestParseTokens(t *testing.T) {
	pages, err := ParseTokens([]string{"5-6", "1-3", "2-4", "9"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 9}, pages)

	pages, err = ParseTokens(nil)
	require.NoError(t, err)
	assert.Empty(t, pages)

	_, err = ParseTokens([]string{"1-2", "4-3"})
	assert.Error(t, err)
}

func TestGroupConsecutive(t *testing.T) {
	tests := []struct {
		name     string
		pages    []int
		expected []string
	}{
		{"mixed runs", []int{1, 2, 3, 7, 8, 10}, []string{"1-3", "7-8", "10-10"}},
		{"unsorted with duplicates", []int{8, 1, 3, 2, 2, 7}, []string{"1-3", "7-8"}},
		{"single page", []int{4}, []string{"4-4"}},
		{"empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GroupConsecutive(tt.pages))
		})
	}
}

func TestGroupConsecutive_RoundTrip(t *testing.T) {
	sets := [][]int{
		{1},
		{1, 2, 3, 7, 8, 10},
		{2, 4, 6, 8},
		{5, 6, 7, 8, 9, 10, 11},
		{1, 3, 4, 5, 100, 101},
	}

	for _, set := range sets {
		tokens := GroupConsecutive(set)
		pages, err := ParseTokens(tokens)
		require.NoError(t, err)
		assert.Equal(t, set, pages)
		assert.Equal(t, tokens, GroupConsecutive(pages))
	}
}

func TestPageRange(t *testing.T) {
	r := PageRange{Start: 3, End: 5}
	assert.Equal(t, "3-5", r.String())
	assert.Equal(t, 3, r.Len())
	assert.True(t, r.Contains(4))
	assert.False(t, r.Contains(6))
	assert.Equal(t, []int{3, 4, 5}, r.Pages())
}

func TestFormatPages(t *testing.T) {
	assert.Equal(t, "Aucune", FormatPages(nil))
	assert.Equal(t, "1-3, 7-8", FormatPages([]int{1, 2, 3, 7, 8}))
}
