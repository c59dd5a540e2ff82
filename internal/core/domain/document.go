package domain

import "time"

// DocumentKind identifies the source format of an indexed document.
type DocumentKind string

// Supported document kinds.
const (
	KindMarkdown DocumentKind = "markdown"
	KindPDF      DocumentKind = "pdf"
)

// DocumentMetadata carries the typed metadata extracted during parsing.
// Fields that do not apply to a format are left at their zero value and
// omitted from the stored JSON.
type DocumentMetadata struct {
	// Filename is the base name of the source file.
	Filename string `json:"filename,omitempty"`

	// SizeBytes is the size of the source file on disk.
	SizeBytes int64 `json:"size_bytes,omitempty"`

	// Headers is the number of headings found (markdown only).
	Headers int `json:"headers,omitempty"`

	// Pages is the number of pages (PDF only).
	Pages int `json:"pages,omitempty"`
}

// Document represents a parsed source file held in the index.
// Documents are immutable once written: re-indexing a known path is a
// skip, never an overwrite.
type Document struct {
	// ID is the unique identifier, assigned by the store on insert.
	ID string

	// Path is the absolute path of the source file. Unique per index.
	Path string

	// Kind is the source format.
	Kind DocumentKind

	// Content is the full extracted text before chunking.
	Content string

	// Metadata holds format-specific details about the source file.
	Metadata DocumentMetadata

	// CreatedAt is when the document was indexed.
	CreatedAt time.Time
}

// Chunk is the unit of embedding and retrieval: a bounded text span cut
// from a document, possibly carrying overlap words from its predecessor.
type Chunk struct {
	// ID is the unique identifier, assigned by the store on insert.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Content is the chunk text. May exceed the nominal chunk size by
	// the prepended overlap words.
	Content string

	// Index is the 0-based position within the document. Values for one
	// document are contiguous starting at 0 in emission order.
	Index int
}

// Embedding is the vector representation of one chunk. Exactly one
// embedding exists per successfully embedded chunk.
type Embedding struct {
	// ChunkID links to the owning Chunk.
	ChunkID string

	// Vector is the fixed-length embedding. Dimensionality is constant
	// per index; the store rejects inserts that would mix dimensions.
	Vector []float32
}
