// Package model contains data structures used by the converter
package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsupportedFormat is returned when an extension is not in the registry
var ErrUnsupportedFormat = errors.New("unsupported file format")

// OutputExtension is the extension of every converted file
const OutputExtension = ".pdf"

// Category identifies the render strategy for a family of input formats
type Category int

// Supported categories
const (
	CategoryImage Category = iota + 1
	CategoryText
	CategoryTabular
	CategoryExternalDocument
)

// String returns the short name of the category
func (c Category) String() string {
	switch c {
	case CategoryImage:
		return "image"
	case CategoryText:
		return "text"
	case CategoryTabular:
		return "tabular"
	case CategoryExternalDocument:
		return "document"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Categories lists every category in display order
var Categories = []Category{
	CategoryImage,
	CategoryText,
	CategoryExternalDocument,
	CategoryTabular,
}

// Registry maps normalized extensions (lowercase, dot-prefixed) to a category.
// It is read-only after construction and safe for concurrent use.
type Registry struct {
	extensions map[string]Category
}

// NewRegistry creates a registry from category -> extensions sets.
// An extension listed under two categories is a programming error.
func NewRegistry(sets map[Category][]string) (*Registry, error) {
	r := &Registry{extensions: make(map[string]Category)}
	for category, exts := range sets {
		for _, ext := range exts {
			key := strings.ToLower(ext)
			if !strings.HasPrefix(key, ".") || len(key) < 2 {
				return nil, fmt.Errorf("invalid extension %q", ext)
			}
			if prev, ok := r.extensions[key]; ok && prev != category {
				return nil, fmt.Errorf("extension %s registered for both %s and %s", key, prev, category)
			}
			r.extensions[key] = category
		}
	}
	return r, nil
}

var defaultRegistry = mustRegistry(map[Category][]string{
	CategoryImage:            {".png", ".jpg", ".jpeg", ".bmp", ".tiff", ".gif"},
	CategoryText:             {".txt", ".md"},
	CategoryExternalDocument: {".docx"},
	CategoryTabular:          {".xlsx", ".xls"},
})

func mustRegistry(sets map[Category][]string) *Registry {
	r, err := NewRegistry(sets)
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultRegistry returns the process-wide registry of supported formats
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// CategoryFor returns the category registered for ext. The lookup is
// case-insensitive and ext must include the leading dot.
func (r *Registry) CategoryFor(ext string) (Category, error) {
	category, ok := r.extensions[strings.ToLower(ext)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return category, nil
}

// Supports reports whether ext is registered
func (r *Registry) Supports(ext string) bool {
	_, ok := r.extensions[strings.ToLower(ext)]
	return ok
}

// Extensions returns the sorted extensions registered for category
func (r *Registry) Extensions(category Category) []string {
	var exts []string
	for ext, c := range r.extensions {
		if c == category {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

// All returns every registered extension, sorted
func (r *Registry) All() []string {
	exts := make([]string, 0, len(r.extensions))
	for ext := range r.extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// OutputPath derives the PDF path for input. The base name is kept verbatim
// and only the extension is replaced. When dir is empty the input's own
// directory is used.
func OutputPath(input, dir string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, stem+OutputExtension)
}
