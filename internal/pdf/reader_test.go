package pdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_OpenRejectsInvalidFiles(t *testing.T) {
	reader := NewReader(1024)
	tempDir := t.TempDir()

	textPath := filepath.Join(tempDir, "notes.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("hello"), 0o644))

	bigPath := filepath.Join(tempDir, "big.pdf")
	require.NoError(t, os.WriteFile(bigPath, make([]byte, 2048), 0o644))

	garbagePath := filepath.Join(tempDir, "garbage.pdf")
	require.NoError(t, os.WriteFile(garbagePath, []byte("not a pdf at all"), 0o644))

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(tempDir, "missing.pdf")},
		{"wrong extension", textPath},
		{"too large", bigPath},
		{"unparseable", garbagePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := reader.Open(tt.path)
			assert.Error(t, err)
			assert.Nil(t, src)
		})
	}
}

func TestDocument_ClosedAccess(t *testing.T) {
	doc := &Document{name: "a.pdf", path: "/tmp/a.pdf", pages: 3, texts: map[int]string{}}

	_, err := doc.PageText(1)
	require.Error(t, err)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, 1, extractionErr.Page)
	assert.True(t, errors.Is(err, ErrClosed))
	assert.NoError(t, doc.Close())
}

func TestDocument_CachedText(t *testing.T) {
	doc := &Document{name: "a.pdf", pages: 2, texts: map[int]string{2: "cached"}}

	text, err := doc.PageText(2)
	require.NoError(t, err)
	assert.Equal(t, "cached", text)
}

func TestExtractionError(t *testing.T) {
	err := &ExtractionError{Path: "doc.pdf", Op: "tables", Page: 4, Err: ErrPageOutOfRange}
	assert.Contains(t, err.Error(), "page 4")
	assert.True(t, errors.Is(err, ErrPageOutOfRange))

	noPage := &ExtractionError{Path: "doc.pdf", Op: "open", Err: errors.New("boom")}
	assert.Equal(t, "pdf open failed for doc.pdf: boom", noPage.Error())
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "bordereau_2024", BaseName("/data/in/bordereau_2024.pdf"))
	assert.Equal(t, "SCAN", BaseName("SCAN.PDF"))
	assert.Equal(t, "notes.txt", BaseName("notes.txt"))
}

func TestOpenerFunc(t *testing.T) {
	called := ""
	opener := OpenerFunc(func(path string) (Source, error) {
		called = path
		return nil, errors.New("no source")
	})

	_, err := opener.Open("x.pdf")
	assert.Error(t, err)
	assert.Equal(t, "x.pdf", called)
}
