package output

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "CAP_2024", "CAP_2024"},
		{"forbidden characters", `CAP<03>:"a/b\c|d?e*`, "CAP_03___a_b_c_d_e"},
		{"whitespace runs", "CAP  du \t 12 mars", "CAP_du_12_mars"},
		{"trimmed edges", " ._CAP-. ", "CAP"},
		{"empty", "...", "document"},
		{"long", strings.Repeat("é", 60), strings.Repeat("é", 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}
}

func TestSanitizeSheetName(t *testing.T) {
	assert.Equal(t, "Titularisations", SanitizeSheetName("Titularisations"))
	assert.Equal(t, "a_b_c_d_e_f_g", SanitizeSheetName(`a/b\c?d*e[f]g`))
	assert.Equal(t, "a_b", SanitizeSheetName(" a:b "))

	long := SanitizeSheetName("Publications - examen des candidatures")
	assert.Equal(t, "Publications - examen des ca...", long)
	assert.Equal(t, 31, utf8.RuneCountInString(long))

	assert.Equal(t, "Feuille", SanitizeSheetName("  "))
}

func TestUniqueSheetName(t *testing.T) {
	used := map[string]bool{"avancement": true, "avancement (2)": true}
	assert.Equal(t, "Mutations", uniqueSheetName("Mutations", used))
	assert.Equal(t, "Avancement (3)", uniqueSheetName("Avancement", used))

	long := strings.Repeat("x", 31)
	got := uniqueSheetName(long, map[string]bool{long: true})
	assert.Equal(t, strings.Repeat("x", 27)+" (2)", got)
}

func TestGlobalFilename(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	assert.Equal(t, "extraction_globale_consolidee_20240305_140709.csv", GlobalFilename(now))
}

func TestDocumentFilename(t *testing.T) {
	assert.Equal(t, "CAP_mars.csv", DocumentFilename("/in/CAP mars.PDF", FormatCSV))
	assert.Equal(t, "notes.txt.xlsx", DocumentFilename("notes.txt", FormatXLSX))
}
