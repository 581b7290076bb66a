package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Reader opens PDF files as Sources backed by ledongthuc/pdf
type Reader struct {
	maxFileSize int64
	validator   *Validator
	layout      LayoutConfig
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		validator:   NewValidator(maxFileSize),
		layout:      DefaultLayoutConfig(),
	}
}

// WithLayout overrides the table grid settings
func (r *Reader) WithLayout(cfg LayoutConfig) *Reader {
	r.layout = cfg
	return r
}

// Open checks the file and opens it for page access. It implements Opener.
func (r *Reader) Open(path string) (Source, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if err := r.validator.ValidateFileInfo(path, fileInfo); err != nil {
		return nil, err
	}

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Op: "open", Err: err}
	}

	return &Document{
		name:   filepath.Base(path),
		path:   path,
		file:   f,
		reader: pdfReader,
		pages:  pdfReader.NumPage(),
		texts:  make(map[int]string),
		layout: r.layout,
	}, nil
}

// Document is an open PDF with a per-page text cache. The cache lives as
// long as the Document.
type Document struct {
	name   string
	path   string
	file   *os.File
	reader *pdf.Reader
	pages  int
	texts  map[int]string
	layout LayoutConfig
}

// Name returns the base file name
func (d *Document) Name() string {
	return d.name
}

// PageCount returns the number of pages
func (d *Document) PageCount() int {
	return d.pages
}

// PageText extracts the plain text of a page. Pages without content yield
// an empty string.
func (d *Document) PageText(page int) (string, error) {
	if text, ok := d.texts[page]; ok {
		return text, nil
	}

	var text string
	err := d.withPage(page, "text", func(p pdf.Page) error {
		content, err := p.GetPlainText(nil)
		if err != nil {
			return err
		}
		text = content
		return nil
	})
	if err != nil {
		return "", err
	}

	d.texts[page] = text
	return text, nil
}

// PageTables builds table grids from the positioned text of a page
func (d *Document) PageTables(page int) ([][][]string, error) {
	var tables [][][]string
	err := d.withPage(page, "tables", func(p pdf.Page) error {
		tables = BuildTables(p.Content().Text, d.layout)
		return nil
	})
	return tables, err
}

// withPage resolves a page and runs fn, turning parser panics into
// ExtractionErrors.
func (d *Document) withPage(page int, op string, fn func(pdf.Page) error) (err error) {
	if d.reader == nil {
		return &ExtractionError{Path: d.path, Op: op, Page: page, Err: ErrClosed}
	}
	if page < 1 || page > d.pages {
		return &ExtractionError{Path: d.path, Op: op, Page: page, Err: ErrPageOutOfRange}
	}

	defer func() {
		if r := recover(); r != nil {
			err = &ExtractionError{Path: d.path, Op: op, Page: page, Err: fmt.Errorf("parser panic: %v", r)}
		}
	}()

	p := d.reader.Page(page)
	if p.V.IsNull() {
		return nil
	}
	if err := fn(p); err != nil {
		return &ExtractionError{Path: d.path, Op: op, Page: page, Err: err}
	}
	return nil
}

// Close releases the underlying file
func (d *Document) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	d.reader = nil
	return err
}

// BaseName strips the directory and a trailing ".pdf" from a path
func BaseName(path string) string {
	name := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name = name[:len(name)-len(".pdf")]
	}
	return name
}
