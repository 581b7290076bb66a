package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esClymax/Appli-Extraction/internal/table"
)

func TestWriteCSV(t *testing.T) {
	tbl := table.New(
		[]string{"Document", "Catégorie", "Nom & Prénom"},
		[][]string{{"CAP", "Titularisations", "Dupont, Jean"}, {"CAP", "Avancement", `Martin "Anne"`}},
	)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))

	want := "\xef\xbb\xbfDocument,Catégorie,Nom & Prénom\n" +
		"CAP,Titularisations,\"Dupont, Jean\"\n" +
		"CAP,Avancement,\"Martin \"\"Anne\"\"\"\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table.New(table.PriorityColumns, nil)))
	assert.Equal(t, "\xef\xbb\xbfDocument,Catégorie,Nom & Prénom\n", buf.String())
}
