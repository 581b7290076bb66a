package pdf_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esClymax/Appli-Extraction/internal/pdf"
	"github.com/esClymax/Appli-Extraction/internal/pdf/pdftest"
)

func capPages() [][]pdftest.Line {
	return [][]pdftest.Line{
		{
			{X: 50, Y: 750, Size: 12, Text: "Bordereau A3 n 1 Titularisations"},
			{X: 50, Y: 700, Text: "Nom Prenom"},
			{X: 150, Y: 700, Text: "Grade"},
			{X: 250, Y: 700, Text: "Service"},
			{X: 50, Y: 685, Text: "Dupont Jean"},
			{X: 150, Y: 685, Text: "A1"},
			{X: 250, Y: 685, Text: "RH"},
			{X: 50, Y: 670, Text: "Martin Paul"},
			{X: 150, Y: 670, Text: "B2"},
			{X: 250, Y: 670, Text: "DSI"},
		},
		{
			{X: 50, Y: 750, Size: 12, Text: "Bordereau A7 n 2 Avancement"},
		},
	}
}

func writeCapPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cap.pdf")
	require.NoError(t, pdftest.WritePDF(path, capPages()))
	return path
}

func TestReader_OpenValidPDF(t *testing.T) {
	path := writeCapPDF(t)

	src, err := pdf.NewReader(1024 * 1024).Open(path)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, "cap.pdf", src.Name())
	assert.Equal(t, 2, src.PageCount())

	text, err := src.PageText(1)
	require.NoError(t, err)
	assert.Contains(t, text, "Bordereau A3")
	assert.Contains(t, text, "Dupont Jean")

	tables, err := src.PageTables(1)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, [][]string{
		{"Nom Prenom", "Grade", "Service"},
		{"Dupont Jean", "A1", "RH"},
		{"Martin Paul", "B2", "DSI"},
	}, tables[0])

	text, err = src.PageText(2)
	require.NoError(t, err)
	assert.Contains(t, text, "Bordereau A7")

	tables, err = src.PageTables(2)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestInspect_ValidPDF(t *testing.T) {
	info, err := pdf.Inspect(writeCapPDF(t))
	require.NoError(t, err)

	assert.Equal(t, 2, info.Pages)
	assert.Equal(t, "1.4", info.Version)
	assert.False(t, info.Encrypted)
}

func TestValidator_ValidPDF(t *testing.T) {
	path := writeCapPDF(t)

	result, err := pdf.NewValidator(1024 * 1024).ValidateFile(pdf.ValidateRequest{Path: path})
	require.NoError(t, err)
	assert.True(t, result.Valid, result.Message)
	assert.Equal(t, 2, result.Pages)
	assert.True(t, pdf.NewValidator(1024*1024).IsValidPDF(path))
}
