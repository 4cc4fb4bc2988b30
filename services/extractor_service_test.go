package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	text, err := ExtractText("notes.TXT", []byte("plain notes"))
	require.NoError(t, err)
	assert.Equal(t, "plain notes", text)

	text, err = ExtractText("readme.md", []byte("# Title"))
	require.NoError(t, err)
	assert.Equal(t, "# Title", text)

	_, err = ExtractText("slides.pptx", []byte("x"))
	require.ErrorIs(t, err, ErrUnsupportedFileType)

	_, err = ExtractText("broken.pdf", []byte("not a pdf"))
	assert.Error(t, err)
}

func TestExtractTextFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lecture.md")
	require.NoError(t, os.WriteFile(path, []byte("Lecture one."), 0o644))

	text, err := ExtractTextFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Lecture one.", text)

	_, err = ExtractTextFromFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigurePDFLicense_EmptyKey(t *testing.T) {
	assert.NoError(t, ConfigurePDFLicense("  "))
}
