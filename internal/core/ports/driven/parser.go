package driven

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// Parser extracts text and metadata from a source file format.
// Each parser handles specific file extensions (e.g. Markdown, PDF).
type Parser interface {
	// Supports reports whether this parser handles the given path.
	Supports(path string) bool

	// Kind returns the document kind this parser produces.
	Kind() domain.DocumentKind

	// Parse reads the file and returns a document with Content and
	// Metadata populated. The document carries no ID; the store assigns
	// one on insert. Failures wrap domain.ErrParse.
	Parse(ctx context.Context, path string) (*domain.Document, error)
}
