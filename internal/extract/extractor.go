// Package extract provides plain-text extraction from uploaded document formats.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedType is returned when a document's extension is not one of
// the supported formats. During batch ingestion the failure is recorded per
// document and does not abort the rest of the batch.
var ErrUnsupportedType = errors.New("unsupported file type")

// SupportedExtensions lists the extensions Extract accepts, with leading dot.
var SupportedExtensions = []string{".txt", ".md", ".pdf", ".html", ".htm", ".docx", ".xlsx"}

// Extractor turns document bytes into plain text based on a file-type hint.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Supported reports whether the extension (with leading dot, any case) is a
// format Extract can handle.
func (e *Extractor) Supported(ext string) bool {
	ext = strings.ToLower(ext)
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Extract reads the file at path and returns its text content, using the
// file extension as the format hint.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(content, filepath.Ext(path))
}

// ExtractBytes extracts text from content based on the given extension
// (with leading dot, e.g. ".pdf"). Unknown extensions fail with
// ErrUnsupportedType rather than being guessed at.
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch strings.ToLower(ext) {
	case ".txt", ".md":
		return extractPlain(content)
	case ".pdf":
		return extractPDF(content)
	case ".html", ".htm":
		return extractHTML(content)
	case ".docx":
		return extractDOCX(content)
	case ".xlsx":
		return extractExcel(content)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
}
