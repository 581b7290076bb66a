package pdf

import (
	"fmt"
	"os"
	"strings"
)

// Validator handles PDF file validation operations
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateFile checks that a path names a readable, unencrypted PDF and
// reports its page count. Validation failures are carried in the result.
func (v *Validator) ValidateFile(req ValidateRequest) (*ValidateResult, error) {
	result := &ValidateResult{
		Path:  req.Path,
		Valid: false,
	}

	info, err := v.validatePDFFile(req.Path)
	if info != nil {
		result.Pages = info.Pages
		result.Version = info.Version
		result.Encrypted = info.Encrypted
	}
	if err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // Return result with validation error, not a processing error
	}

	result.Valid = true
	return result, nil
}

func (v *Validator) validatePDFFile(filePath string) (*Inspection, error) {
	if filePath == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := v.ValidateFileInfo(filePath, fileInfo); err != nil {
		return nil, err
	}

	info, err := Inspect(filePath)
	if err != nil {
		return nil, fmt.Errorf("invalid PDF file: %w", err)
	}
	if info.Encrypted {
		return info, fmt.Errorf("PDF is encrypted: %s", filePath)
	}
	if info.Pages == 0 {
		return info, fmt.Errorf("PDF has no pages: %s", filePath)
	}

	return info, nil
}

// IsValidPDF performs a quick check to see if a file is a valid PDF
func (v *Validator) IsValidPDF(filePath string) bool {
	_, err := v.validatePDFFile(filePath)
	return err == nil
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !isPDFFile(filePath) {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}

	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	return nil
}

func isPDFFile(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}
