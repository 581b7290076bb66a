package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/esClymax/Appli-Extraction/internal/table"
)

// utf8BOM lets spreadsheet software detect the encoding of accented headers
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes t as comma separated UTF-8 with a byte order mark. The
// header row is always written, even without data rows.
func WriteCSV(w io.Writer, t *table.Table) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if t == nil {
		t = &table.Table{}
	}
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
