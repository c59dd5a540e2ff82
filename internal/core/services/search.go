package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driving"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// Default search parameters, applied when the caller passes zero values.
const (
	DefaultTopK      = 5
	DefaultThreshold = 0.7
)

// Ensure Searcher implements the interface.
var _ driving.SearchService = (*Searcher)(nil)

// Searcher answers semantic queries by brute-force cosine ranking over
// every stored vector.
type Searcher struct {
	store    driven.VectorStore
	embedder driven.EmbeddingService
}

// NewSearcher creates a new search service.
func NewSearcher(store driven.VectorStore, embedder driven.EmbeddingService) *Searcher {
	return &Searcher{
		store:    store,
		embedder: embedder,
	}
}

// Search embeds the query, scans all stored vectors and returns the
// ranked results enriched with their source documents. A query
// embedding failure is fatal; there is no partial search.
func (s *Searcher) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.Threshold == 0 {
		opts.Threshold = DefaultThreshold
	}

	logger.Section("Search")
	logger.Debug("query: %q topK=%d threshold=%.2f", query, opts.TopK, opts.Threshold)

	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	chunks, embeddings, err := s.store.AllChunksWithEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan index: %w", err)
	}
	logger.Debug("scanning %d stored vectors", len(embeddings))

	ranked, err := rankAndFilter(queryVector, chunks, embeddings, opts.TopK, opts.Threshold)
	if err != nil {
		return nil, err
	}

	// Documents repeat across chunks, resolve each one once.
	docs := make(map[string]*domain.Document)
	results := make([]domain.SearchResult, 0, len(ranked))
	for _, rc := range ranked {
		doc, ok := docs[rc.chunk.DocumentID]
		if !ok {
			doc, err = s.store.GetDocument(ctx, rc.chunk.DocumentID)
			if errors.Is(err, domain.ErrNotFound) {
				// A ranked chunk without its document means the index is
				// inconsistent; surface it instead of dropping results.
				return nil, fmt.Errorf("document %s for chunk %s: %w",
					rc.chunk.DocumentID, rc.chunk.ID, domain.ErrNotFound)
			}
			if err != nil {
				return nil, fmt.Errorf("resolve document %s: %w", rc.chunk.DocumentID, err)
			}
			docs[rc.chunk.DocumentID] = doc
		}
		results = append(results, domain.SearchResult{
			Chunk:      rc.chunk,
			Document:   *doc,
			Similarity: rc.similarity,
		})
	}

	logger.Info("search returned %d results", len(results))
	return results, nil
}
