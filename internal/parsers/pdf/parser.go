// Package pdf parses PDF files into documents using MuPDF via go-fitz.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser handles PDF documents.
type Parser struct{}

// New creates a new PDF parser.
func New() *Parser {
	return &Parser{}
}

// Supports reports whether the file looks like a PDF.
func (p *Parser) Supports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Kind returns the document kind this parser produces.
func (p *Parser) Kind() domain.DocumentKind {
	return domain.KindPDF
}

// Parse extracts the text of every page and joins pages with blank
// lines. Pages that fail text extraction are skipped rather than
// failing the whole file.
func (p *Parser) Parse(ctx context.Context, path string) (*domain.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", domain.ErrParse, path, err)
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrParse, path, err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	var textParts []string
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := doc.Text(i)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		textParts = append(textParts, strings.TrimSpace(text))
	}

	if len(textParts) == 0 {
		return nil, fmt.Errorf("%w: %s: no text content", domain.ErrParse, path)
	}

	return &domain.Document{
		Path:    path,
		Kind:    domain.KindPDF,
		Content: strings.Join(textParts, "\n\n"),
		Metadata: domain.DocumentMetadata{
			Filename:  filepath.Base(path),
			SizeBytes: info.Size(),
			Pages:     pages,
		},
	}, nil
}
