// Package loader selects and runs file-type-specific text extractors.
package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"docsearch/internal/domain"
	"docsearch/internal/port"
)

// Registry maps file extensions to loaders.
type Registry struct {
	text port.Loader
	csv  port.Loader
	pdf  port.Loader
}

// NewRegistry creates a registry with the default loaders.
func NewRegistry() *Registry {
	return &Registry{
		text: &TextLoader{},
		csv:  &CSVLoader{},
		pdf:  NewPDFLoader(nil),
	}
}

// ForPath returns the loader for the file's extension.
func (r *Registry) ForPath(path string) (port.Loader, error) {
	switch Extension(path) {
	case ".txt", ".md", ".html":
		return r.text, nil
	case ".csv":
		return r.csv, nil
	case ".pdf":
		return r.pdf, nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, Extension(path))
	}
}

// Load extracts text from the file at path.
func (r *Registry) Load(path string) (string, error) {
	l, err := r.ForPath(path)
	if err != nil {
		return "", err
	}
	return l.Load(path)
}

// Extension returns the lower-cased file extension including the dot.
func Extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
