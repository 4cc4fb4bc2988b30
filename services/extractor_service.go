package services

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// ErrUnsupportedFileType is returned for files that are neither text,
// markdown nor PDF.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// ConfigurePDFLicense sets the UniDoc metered key used for PDF extraction.
// An empty key leaves the library unlicensed.
func ConfigurePDFLicense(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	if err := license.SetMeteredKey(key); err != nil {
		return fmt.Errorf("set unidoc license key: %w", err)
	}
	return nil
}

// IsSupportedFile reports whether text can be extracted from path.
func IsSupportedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".pdf":
		return true
	default:
		return false
	}
}

// ExtractTextFromFile reads a file and returns its text content.
// It automatically handles different file types.
func ExtractTextFromFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return ExtractText(filepath.Base(path), content)
}

// ExtractText returns the text of an in-memory file, picking the format from
// the extension of filename.
func ExtractText(filename string, content []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".txt", ".md":
		return string(content), nil
	case ".pdf":
		return extractTextFromPDF(content)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
}

// extractTextFromPDF uses UniPDF to get all text from a PDF file.
func extractTextFromPDF(content []byte) (string, error) {
	pdfReader, err := model.NewPdfReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("count pdf pages: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			return "", fmt.Errorf("get pdf page %d: %w", i, err)
		}

		ex, err := extractor.New(page)
		if err != nil {
			return "", fmt.Errorf("create extractor for page %d: %w", i, err)
		}

		text, err := ex.ExtractText()
		if err != nil {
			return "", fmt.Errorf("extract text from page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	return sb.String(), nil
}
