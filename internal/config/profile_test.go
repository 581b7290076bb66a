package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esClymax/Appli-Extraction/internal/category"
	"github.com/esClymax/Appli-Extraction/internal/table"
)

const sampleProfile = `
categories:
  - keyword: "Bordereau A3 n"
    label: "Titularisations"
  - keyword: "Bordereau A5 n"
    label: "Publications"
    publication: true
cleaning:
  remove_empty_columns: false
  regex_patterns:
    "Nom & Prénom":
      "\\s+": " "
      "^M\\.? ": ""
    "Grade":
      "(\\d+)": "GF$1"
filters:
  - column: "Catégorie"
    type: contains
    value: "titul"
`

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile([]byte(sampleProfile))
	require.NoError(t, err)

	registry, err := p.Registry()
	require.NoError(t, err)
	require.Equal(t, 2, registry.Len())
	a5, ok := registry.Lookup("Bordereau A5 n")
	require.True(t, ok)
	assert.True(t, a5.Publication)

	rules, err := p.Rules()
	require.NoError(t, err)
	assert.True(t, rules.RemoveEmptyRows)
	assert.False(t, rules.RemoveEmptyColumns)
	assert.True(t, rules.StripWhitespace)
	assert.Equal(t, []table.ColumnRule{
		{Column: "Nom & Prénom", Substitutions: []table.Substitution{
			{Pattern: `\s+`, Replacement: " "},
			{Pattern: `^M\.? `, Replacement: ""},
		}},
		{Column: "Grade", Substitutions: []table.Substitution{
			{Pattern: `(\d+)`, Replacement: "GF$1"},
		}},
	}, rules.RegexPatterns)

	assert.Equal(t, []table.Filter{{Column: "Catégorie", Type: "contains", Value: "titul"}}, p.Filters)
}

func TestParseProfile_Empty(t *testing.T) {
	p, err := ParseProfile(nil)
	require.NoError(t, err)

	registry, err := p.Registry()
	require.NoError(t, err)
	assert.Equal(t, len(category.Defaults()), registry.Len())

	rules, err := p.Rules()
	require.NoError(t, err)
	assert.Equal(t, table.DefaultRules(), rules)
}

func TestParseProfile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "categories: [unclosed"},
		{"patterns not a mapping", "cleaning:\n  regex_patterns: [a, b]\n"},
		{"column patterns not a mapping", "cleaning:\n  regex_patterns:\n    Nom: \"x\"\n"},
		{"bad regex", "cleaning:\n  regex_patterns:\n    Nom:\n      \"(\": \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProfile([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestProfile_DuplicateCategories(t *testing.T) {
	p, err := ParseProfile([]byte("categories:\n  - keyword: A\n  - keyword: A\n"))
	require.NoError(t, err)

	_, err = p.Registry()
	assert.Error(t, err)
}

func TestLoadProfile(t *testing.T) {
	p, err := LoadProfile("")
	require.NoError(t, err)
	assert.Empty(t, p.Categories)

	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleProfile), 0o600))

	p, err = LoadProfile(path)
	require.NoError(t, err)
	assert.Len(t, p.Categories, 2)

	_, err = LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
