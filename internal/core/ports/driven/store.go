package driven

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// VectorStore persists documents, chunks and embeddings.
// Backed by SQLite in WAL mode; writes are serialised through a single
// logical writer while concurrent reads are permitted.
type VectorStore interface {
	// InsertDocument stores a new document and returns its assigned ID.
	InsertDocument(ctx context.Context, doc *domain.Document) (string, error)

	// InsertChunk stores a new chunk and returns its assigned ID.
	InsertChunk(ctx context.Context, chunk *domain.Chunk) (string, error)

	// InsertEmbedding stores the embedding for a chunk. Inserting a
	// vector whose dimensionality differs from vectors already in the
	// index fails with domain.ErrDimensionMismatch.
	InsertEmbedding(ctx context.Context, emb *domain.Embedding) error

	// GetDocumentByPath retrieves a document by source path.
	// Returns domain.ErrNotFound if the path has not been indexed.
	GetDocumentByPath(ctx context.Context, path string) (*domain.Document, error)

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunksByDocument retrieves a document's chunks ordered by
	// chunk index.
	GetChunksByDocument(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// AllChunksWithEmbeddings returns every (chunk, embedding) pair in
	// the index. This is the full scan behind brute-force search.
	AllChunksWithEmbeddings(ctx context.Context) ([]domain.Chunk, []domain.Embedding, error)

	// DeleteDocument removes a document with its chunks and embeddings,
	// in dependency order. Used by forced re-indexing.
	DeleteDocument(ctx context.Context, id string) error

	// ClearIndex removes all rows from all three tables.
	ClearIndex(ctx context.Context) error

	// Stats returns row counts over the three tables.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Close releases the underlying database handle.
	Close() error
}
