// Package pdftest provides an in-memory pdf.Source and a minimal PDF file
// writer for tests.
package pdftest

import (
	"fmt"

	"github.com/esClymax/Appli-Extraction/internal/pdf"
)

// Document is a scripted pdf.Source. Pages without an entry in Texts or
// Tables return empty content.
type Document struct {
	Filename string
	Pages    int
	Texts    map[int]string
	Tables   map[int][][][]string

	// TextErrors and TableErrors make the matching page fail.
	TextErrors  map[int]error
	TableErrors map[int]error

	TextCalls  map[int]int
	TableCalls map[int]int
	Opens      int
	Closes     int
}

var _ pdf.Source = (*Document)(nil)

// Name returns the file name
func (d *Document) Name() string {
	return d.Filename
}

// PageCount returns Pages
func (d *Document) PageCount() int {
	return d.Pages
}

// PageText returns the scripted text of a page
func (d *Document) PageText(page int) (string, error) {
	if d.TextCalls == nil {
		d.TextCalls = make(map[int]int)
	}
	d.TextCalls[page]++

	if err := d.check(page, "text", d.TextErrors); err != nil {
		return "", err
	}
	return d.Texts[page], nil
}

// PageTables returns the scripted grids of a page
func (d *Document) PageTables(page int) ([][][]string, error) {
	if d.TableCalls == nil {
		d.TableCalls = make(map[int]int)
	}
	d.TableCalls[page]++

	if err := d.check(page, "tables", d.TableErrors); err != nil {
		return nil, err
	}
	return d.Tables[page], nil
}

func (d *Document) check(page int, op string, errs map[int]error) error {
	if page < 1 || page > d.Pages {
		return &pdf.ExtractionError{Path: d.Filename, Op: op, Page: page, Err: pdf.ErrPageOutOfRange}
	}
	if err := errs[page]; err != nil {
		return &pdf.ExtractionError{Path: d.Filename, Op: op, Page: page, Err: err}
	}
	return nil
}

// Close counts the call
func (d *Document) Close() error {
	d.Closes++
	return nil
}

// Library serves Documents by path
type Library map[string]*Document

// Open implements pdf.Opener
func (l Library) Open(path string) (pdf.Source, error) {
	doc, ok := l[path]
	if !ok {
		return nil, fmt.Errorf("cannot access file: %s", path)
	}
	doc.Opens++
	return doc, nil
}
