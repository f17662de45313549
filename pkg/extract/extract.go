// Package extract converts reference source files into plain text.
//
// Supported formats are plain text (.txt, .md), HTML (.html, .htm), and
// EPUB (.epub). ErrUnsupportedFormat marks files that should not be
// attempted; ErrExtraction marks files that were attempted and failed.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for file extensions no extractor handles.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrExtraction is returned when a supported file cannot be extracted.
	ErrExtraction = errors.New("text extraction failed")
)

// Supported reports whether the file's extension has an extractor.
func Supported(path string) bool {
	switch normalizeExt(path) {
	case ".txt", ".md", ".html", ".htm", ".epub":
		return true
	}
	return false
}

// Format returns the canonical format name for a supported path, e.g. "txt".
func Format(path string) string {
	ext := normalizeExt(path)
	if ext == "" {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}

// Extract reads the file at path and returns its plain text content.
func Extract(path string) (string, error) {
	var (
		text string
		err  error
	)

	switch normalizeExt(path) {
	case ".txt", ".md":
		text, err = extractPlainText(path)
	case ".html", ".htm":
		text, err = extractHTMLFile(path)
	case ".epub":
		text, err = extractEPUB(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text content in %s", ErrExtraction, path)
	}

	return text, nil
}

func normalizeExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
