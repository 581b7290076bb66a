package locator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esClymax/Appli-Extraction/internal/category"
	"github.com/esClymax/Appli-Extraction/internal/pdf"
	"github.com/esClymax/Appli-Extraction/internal/pdf/pdftest"
)

func testRegistry(t *testing.T) *category.Registry {
	t.Helper()
	r, err := category.NewRegistry([]category.Category{
		{Keyword: "Bordereau A3 n", Label: "Titularisations"},
		{Keyword: "Bordereau A5 n", Label: "Publications - examen des candidatures", Publication: true},
		{Keyword: "Bordereau A9 n", Label: "Requêtes individuelles"},
	})
	require.NoError(t, err)
	return r
}

func TestLocate(t *testing.T) {
	doc := &pdftest.Document{
		Filename: "cap.pdf",
		Pages:    8,
		Texts: map[int]string{
			1: "Sommaire",
			2: "BORDEREAU A3 N° 12\nDupont",
			3: "suite des TITULARISATIONS",
			4: "Bordereau A3 n° 12 (fin)\nBordereau A5 n° 7",
			5: "   ",
			6: "publications - examen des candidatures",
			8: "REQUÊTES INDIVIDUELLES",
		},
	}

	pages, err := New(testRegistry(t), nil).Locate(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{"2-4"}, pages["Bordereau A3 n"])
	assert.Equal(t, []string{"4-4", "6-6"}, pages["Bordereau A5 n"])
	assert.Equal(t, []string{"8-8"}, pages["Bordereau A9 n"])
	assert.Equal(t, 1, doc.TextCalls[3], "each page is read once")
}

func TestLocate_AbsentCategoryIsEmpty(t *testing.T) {
	doc := &pdftest.Document{Filename: "vide.pdf", Pages: 2, Texts: map[int]string{1: "Bordereau A3 n"}}

	pages, err := New(testRegistry(t), nil).Locate(doc)
	require.NoError(t, err)

	require.Contains(t, pages, "Bordereau A9 n")
	assert.Empty(t, pages["Bordereau A9 n"])
	assert.NotNil(t, pages["Bordereau A9 n"])
}

func TestLocate_FailsClosed(t *testing.T) {
	doc := &pdftest.Document{
		Filename:   "casse.pdf",
		Pages:      3,
		Texts:      map[int]string{1: "Bordereau A3 n", 3: "Bordereau A9 n"},
		TextErrors: map[int]error{2: errors.New("bad content stream")},
	}

	pages, err := New(testRegistry(t), nil).Locate(doc)
	require.Error(t, err)

	var extractionErr *pdf.ExtractionError
	assert.True(t, errors.As(err, &extractionErr))

	require.Len(t, pages, 3)
	for keyword, tokens := range pages {
		assert.Empty(t, tokens, keyword)
	}
}

func TestPageMap_Found(t *testing.T) {
	registry := testRegistry(t)
	m := PageMap{
		"Bordereau A9 n": {"1-1"},
		"Bordereau A3 n": {"2-3"},
		"Bordereau A5 n": {},
	}

	found := m.Found(registry)
	require.Len(t, found, 2)
	assert.Equal(t, "Bordereau A3 n", found[0].Keyword)
	assert.Equal(t, "Bordereau A9 n", found[1].Keyword)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "requêtes individuelles", Fold("REQUÊTES Individuelles"))
	assert.Equal(t, Fold("Publi\u00e9"), Fold("Publie\u0301"), "composed and decomposed accents fold alike")
}
