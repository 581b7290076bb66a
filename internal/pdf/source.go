package pdf

import (
	"errors"
	"fmt"
)

// Source gives page-level access to one opened PDF. Page numbers are 1-based.
type Source interface {
	// Name is the file name the document was opened from.
	Name() string
	PageCount() int
	// PageText returns the raw text of a page.
	PageText(page int) (string, error)
	// PageTables returns every table grid found on a page, header row first.
	PageTables(page int) ([][][]string, error)
	Close() error
}

// Opener opens a Source for a path. Every scan of a document opens its own
// Source and closes it when done.
type Opener interface {
	Open(path string) (Source, error)
}

// OpenerFunc adapts a function to the Opener interface
type OpenerFunc func(path string) (Source, error)

// Open calls f(path)
func (f OpenerFunc) Open(path string) (Source, error) {
	return f(path)
}

var (
	ErrPageOutOfRange = errors.New("page out of range")
	ErrClosed         = errors.New("document is closed")
)

// ExtractionError reports a failure of the text or table extraction
// primitive. Callers degrade the affected scope to an empty result.
type ExtractionError struct {
	Path string `json:"path"`
	Op   string `json:"operation"`
	Page int    `json:"page,omitempty"`
	Err  error  `json:"error"`
}

func (e *ExtractionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("pdf %s failed on page %d of %s: %v", e.Op, e.Page, e.Path, e.Err)
	}
	return fmt.Sprintf("pdf %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
