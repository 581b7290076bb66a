package pdf

import (
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Inspection is the structural summary pdfcpu reads from a file
type Inspection struct {
	Pages     int    `json:"pages"`
	Version   string `json:"version"`
	Encrypted bool   `json:"encrypted"`
}

// Inspect reads the cross-reference structure of a PDF file in relaxed
// validation mode and returns its page count.
func Inspect(path string) (*Inspection, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Op: "inspect", Err: fmt.Errorf("failed to open file: %w", err)}
	}
	defer file.Close()

	info, err := InspectReader(file)
	if err != nil {
		return nil, &ExtractionError{Path: path, Op: "inspect", Err: err}
	}
	return info, nil
}

// InspectReader is Inspect for an already open stream
func InspectReader(rs io.ReadSeeker) (*Inspection, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	return &Inspection{
		Pages:     ctx.PageCount,
		Version:   ctx.HeaderVersion.String(),
		Encrypted: ctx.Encrypt != nil,
	}, nil
}
