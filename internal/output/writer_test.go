package output

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/esClymax/Appli-Extraction/internal/category"
	"github.com/esClymax/Appli-Extraction/internal/pdf/pdftest"
	"github.com/esClymax/Appli-Extraction/internal/pipeline"
)

func processed(t *testing.T, path string, doc *pdftest.Document) *pipeline.DocumentResult {
	t.Helper()
	registry, err := category.NewRegistry([]category.Category{
		{Keyword: "Bordereau A3 n", Label: "Titularisations"},
		{Keyword: "Bordereau A7 n", Label: "Avancement"},
	})
	require.NoError(t, err)

	s, err := pipeline.New(pipeline.Options{Opener: pdftest.Library{path: doc}, Registry: registry})
	require.NoError(t, err)

	res, err := s.ProcessDocument(context.Background(), path)
	require.NoError(t, err)
	return res
}

func capDocument() *pdftest.Document {
	return &pdftest.Document{
		Filename: "CAP mars.pdf",
		Pages:    2,
		Texts:    map[int]string{1: "Bordereau A3 n° 1", 2: "Bordereau A7 n° 2"},
		Tables: map[int][][][]string{
			1: {{{"Nom", "Grade"}, {"Dupont", "A"}}},
			2: {{{"Nom", "Échelon"}, {"Martin", "4"}}},
		},
	}
}

func TestNewWriter_UnknownFormat(t *testing.T) {
	_, err := NewWriter(t.TempDir(), "pdf", nil)
	assert.Error(t, err)
}

func TestWriter_WriteDocument(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, FormatBoth, nil)
	require.NoError(t, err)

	res := processed(t, "CAP mars.pdf", capDocument())
	paths, err := w.WriteDocument(res)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "CAP_mars.csv"),
		filepath.Join(dir, "CAP_mars.xlsx"),
	}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "\xef\xbb\xbfDocument,Catégorie,Nom & Prénom,Grade,Échelon", lines[0])
	assert.Equal(t, "CAP mars,Titularisations,Dupont,A,", lines[1])
	assert.Equal(t, "CAP mars,Avancement,Martin,,4", lines[2])

	f, err := excelize.OpenFile(paths[1])
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Titularisations", "Avancement"}, f.GetSheetList())
}

func TestWriter_WriteDocument_NoData(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, FormatBoth, nil)
	require.NoError(t, err)

	res := processed(t, "empty.pdf", &pdftest.Document{Filename: "empty.pdf", Pages: 1})
	paths, err := w.WriteDocument(res)
	require.NoError(t, err)
	assert.Empty(t, paths)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriter_WriteGlobal(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	w, err := NewWriter(dir, "", nil)
	require.NoError(t, err)
	w.now = func() time.Time { return time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC) }

	res := processed(t, "CAP mars.pdf", capDocument())
	path, err := w.WriteGlobal(res.Dataset)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "extraction_globale_consolidee_20240305_090000.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\xef\xbb\xbfDocument,"))
}

func TestWriter_WriteDocument_SameNameFromDifferentDirectories(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, FormatBoth, nil)
	require.NoError(t, err)

	first := processed(t, "in1/CAP mars.pdf", capDocument())
	second := processed(t, "in2/CAP mars.pdf", capDocument())

	paths, err := w.WriteDocument(first)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "CAP_mars.csv"), filepath.Join(dir, "CAP_mars.xlsx")}, paths)

	paths, err = w.WriteDocument(second)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "CAP_mars_2.csv"), filepath.Join(dir, "CAP_mars_2.xlsx")}, paths)

	paths, err = w.WriteDocument(first)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "CAP_mars.csv"), paths[0])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}
