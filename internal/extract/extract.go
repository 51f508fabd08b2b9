// Package extract pulls raw grid-structured tables out of source documents.
// Extraction yields cell text only; typing the rows is the row parser's job.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Table is one detected grid: ordered rows of cell strings. Merged or empty
// cells come through as empty strings, never dropped.
type Table struct {
	Page int
	Rows [][]string
}

// Document is one input file queued for extraction, with the source profile
// its rows should be parsed under.
type Document struct {
	Path    string
	Source  string // source identifier carried onto transactions
	Profile string // profile name from configuration
}

// ExtractionError marks a document that could not be opened or is not a
// supported format. It is fatal to that document only; batch processing
// records it and continues with the remaining documents.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extractor pulls tables out of one document format. Implementations are
// stateless: re-extracting the same document yields the same tables.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]Table, error)
	Format() string
}

// Registry selects an extractor by file extension.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Extractor)}
}

// Register adds an extractor for an extension like ".csv". Panics on duplicates.
func (r *Registry) Register(ext string, e Extractor) {
	key := strings.ToLower(ext)
	if _, ok := r.byExt[key]; ok {
		panic("duplicate extractor for " + key)
	}
	r.byExt[key] = e
}

// ForFile returns the extractor for a path, or an ExtractionError when the
// extension is not supported.
func (r *Registry) ForFile(path string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(path))
	e, ok := r.byExt[ext]
	if !ok {
		return nil, &ExtractionError{Path: path, Err: fmt.Errorf("unsupported format %q", ext)}
	}
	return e, nil
}

// DefaultRegistry returns a registry with all built-in extractors.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(".csv", &CSVExtractor{})
	r.Register(".pdf", NewPDFExtractor())
	r.Register(".xls", &XLSExtractor{})
	return r
}
