package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileActions writes generated study material into one output directory.
type FileActions struct {
	OutputDir string // absolute path of the output directory
}

func NewFileActions(outputDir string) (*FileActions, error) {
	if strings.TrimSpace(outputDir) == "" {
		return nil, fmt.Errorf("output directory is not set")
	}
	absPath, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("could not determine absolute path for %s: %w", outputDir, err)
	}
	if err := os.MkdirAll(absPath, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &FileActions{OutputDir: absPath}, nil
}

// sanitizeFilename ensures the filename has the wanted extension and stays
// within the output directory.
func (fa *FileActions) sanitizeFilename(filename, ext string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ext) {
		return "", fmt.Errorf("filename must end with %s", ext)
	}
	cleanPath := filepath.Join(fa.OutputDir, filepath.Base(filename))
	if !strings.HasPrefix(cleanPath, fa.OutputDir+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid filename, attempts to escape output directory")
	}
	return cleanPath, nil
}

// WriteMarkdownFile creates or replaces a markdown file.
func (fa *FileActions) WriteMarkdownFile(filename, content string) (string, error) {
	return fa.write(filename, ".md", []byte(content))
}

// WriteDocumentFile creates or replaces a PDF file.
func (fa *FileActions) WriteDocumentFile(filename string, data []byte) (string, error) {
	return fa.write(filename, ".pdf", data)
}

func (fa *FileActions) write(filename, ext string, data []byte) (string, error) {
	path, err := fa.sanitizeFilename(filename, ext)
	if err != nil {
		return "", err
	}

	// Write next to the target and rename so watchers never see a partial file.
	tmp, err := os.CreateTemp(fa.OutputDir, ".tmp-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp file for %s: %w", filename, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", filename, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("move %s into place: %w", filename, err)
	}
	return path, nil
}
