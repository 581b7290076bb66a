// Package output writes extraction results as CSV files and XLSX workbooks.
package output

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/esClymax/Appli-Extraction/internal/dataset"
	"github.com/esClymax/Appli-Extraction/internal/pipeline"
)

// Output formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatBoth = "both"
)

// DefaultDirPerm is the permission of created output directories
const DefaultDirPerm = 0o750

// Writer stores results under a directory. Documents from different paths
// that sanitize to the same name get numbered names ("cap_2") instead of
// overwriting each other.
type Writer struct {
	dir    string
	format string
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	stems map[string]string // lower-cased stem -> source path
}

// NewWriter creates a Writer. An empty format means CSV.
func NewWriter(dir, format string, logger *slog.Logger) (*Writer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch format {
	case "":
		format = FormatCSV
	case FormatCSV, FormatXLSX, FormatBoth:
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
	return &Writer{
		dir:    dir,
		format: format,
		logger: logger,
		now:    time.Now,
		stems:  make(map[string]string),
	}, nil
}

// stem returns the output name of a document without extension, reserving
// it for that source path.
func (w *Writer) stem(path string) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	base := documentStem(path)
	name := base
	for n := 2; ; n++ {
		owner, taken := w.stems[strings.ToLower(name)]
		if !taken || owner == path {
			break
		}
		name = fmt.Sprintf("%s_%d", base, n)
	}
	if name != base {
		w.logger.Warn("output name already used by another document, renaming",
			"document", path, "name", name)
	}
	w.stems[strings.ToLower(name)] = path
	return name
}

// WriteDocument writes the dataset of a document as CSV and the successful
// categories as an XLSX workbook, according to the format. Documents without
// data produce no file. It returns the paths written.
func (w *Writer) WriteDocument(res *pipeline.DocumentResult) ([]string, error) {
	if !res.HasData() {
		return nil, nil
	}

	stem := w.stem(res.Path)
	var written []string
	if w.format == FormatCSV || w.format == FormatBoth {
		path := filepath.Join(w.dir, stem+"."+FormatCSV)
		if err := w.save(path, func(out io.Writer) error { return WriteCSV(out, res.Dataset.Table) }); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if w.format == FormatXLSX || w.format == FormatBoth {
		var sheets []Sheet
		for _, r := range res.Results() {
			if r.Success {
				sheets = append(sheets, Sheet{Name: r.CategoryLabel, Table: r.Table})
			}
		}
		if len(sheets) > 0 {
			path := filepath.Join(w.dir, stem+"."+FormatXLSX)
			if err := w.save(path, func(out io.Writer) error { return WriteWorkbook(out, sheets) }); err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}

	return written, nil
}

// WriteGlobal writes the consolidated dataset of a batch as CSV
func (w *Writer) WriteGlobal(ds dataset.Dataset) (string, error) {
	path := filepath.Join(w.dir, GlobalFilename(w.now()))
	if err := w.save(path, func(out io.Writer) error { return WriteCSV(out, ds.Table) }); err != nil {
		return "", err
	}
	return path, nil
}

// save renders into memory first so that a failed render leaves no
// partial file behind.
func (w *Writer) save(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Errorf("failed to render %s: %w", filepath.Base(path), err)
	}

	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPerm); err != nil {
		return fmt.Errorf("cannot create output directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	w.logger.Debug("output written", "path", path, "bytes", buf.Len())
	return nil
}
