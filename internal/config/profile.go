package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/esClymax/Appli-Extraction/internal/category"
	"github.com/esClymax/Appli-Extraction/internal/table"
)

// Profile is the optional YAML file customizing what is extracted
//
//	categories:
//	  - keyword: "Bordereau A3 n"
//	    label: "Titularisations"
//	cleaning:
//	  strip_whitespace: true
//	  regex_patterns:
//	    "Nom & Prénom":
//	      "\\s+": " "
//	filters:
//	  - column: "Catégorie"
//	    type: contains
//	    value: "mutation"
type Profile struct {
	Categories []category.Category `yaml:"categories"`
	Cleaning   CleaningProfile     `yaml:"cleaning"`
	Filters    []table.Filter      `yaml:"filters"`
}

// CleaningProfile overrides the default cleaning rules. Absent switches
// keep their default.
type CleaningProfile struct {
	RemoveEmptyRows    *bool `yaml:"remove_empty_rows"`
	RemoveEmptyColumns *bool `yaml:"remove_empty_columns"`
	StripWhitespace    *bool `yaml:"strip_whitespace"`

	// RegexPatterns maps a column to pattern: replacement pairs. It is kept
	// as a node so that substitutions run in the order they are written.
	RegexPatterns yaml.Node `yaml:"regex_patterns"`
}

// LoadProfile reads a profile file. An empty path yields the default
// profile.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		return &Profile{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	p, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// ParseProfile decodes a profile and checks its cleaning rules
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	rules, err := p.Rules()
	if err != nil {
		return nil, err
	}
	if _, err := table.NewCleaner(rules); err != nil {
		return nil, err
	}
	return &p, nil
}

// Registry returns the profile categories, or the built-in table when the
// profile names none.
func (p *Profile) Registry() (*category.Registry, error) {
	if len(p.Categories) == 0 {
		return category.Default(), nil
	}
	return category.NewRegistry(p.Categories)
}

// Rules returns the default cleaning rules with the profile overrides
func (p *Profile) Rules() (table.Rules, error) {
	rules := table.DefaultRules()
	c := p.Cleaning
	if c.RemoveEmptyRows != nil {
		rules.RemoveEmptyRows = *c.RemoveEmptyRows
	}
	if c.RemoveEmptyColumns != nil {
		rules.RemoveEmptyColumns = *c.RemoveEmptyColumns
	}
	if c.StripWhitespace != nil {
		rules.StripWhitespace = *c.StripWhitespace
	}

	patterns, err := decodeRegexPatterns(&c.RegexPatterns)
	if err != nil {
		return table.Rules{}, err
	}
	rules.RegexPatterns = patterns
	return rules, nil
}

func decodeRegexPatterns(node *yaml.Node) ([]table.ColumnRule, error) {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: regex_patterns must map columns to patterns", node.Line)
	}

	var columns []table.ColumnRule
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: patterns of column %q must be a mapping", value.Line, key.Value)
		}

		rule := table.ColumnRule{Column: key.Value}
		for j := 0; j+1 < len(value.Content); j += 2 {
			rule.Substitutions = append(rule.Substitutions, table.Substitution{
				Pattern:     value.Content[j].Value,
				Replacement: value.Content[j+1].Value,
			})
		}
		columns = append(columns, rule)
	}
	return columns, nil
}
