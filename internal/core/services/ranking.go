package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// rankedChunk pairs a chunk with its similarity against the query.
type rankedChunk struct {
	chunk      domain.Chunk
	similarity float64
}

// CosineSimilarity computes dot(a,b) / (|a|*|b|) over two vectors of
// equal length. A zero-magnitude input yields 0, never NaN, so that
// downstream sorting stays stable.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", domain.ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// rankAndFilter scores every candidate against the query vector and
// returns at most topK chunks with similarity >= threshold, descending.
// Ties break deterministically: lower chunk index first, then chunk ID.
func rankAndFilter(
	query []float32,
	chunks []domain.Chunk,
	embeddings []domain.Embedding,
	topK int,
	threshold float64,
) ([]rankedChunk, error) {
	if len(chunks) != len(embeddings) {
		return nil, fmt.Errorf("%w: %d chunks vs %d embeddings",
			domain.ErrInvalidInput, len(chunks), len(embeddings))
	}

	ranked := make([]rankedChunk, 0, len(chunks))
	for i := range chunks {
		sim, err := CosineSimilarity(query, embeddings[i].Vector)
		if err != nil {
			return nil, fmt.Errorf("scoring chunk %s: %w", chunks[i].ID, err)
		}
		if sim < threshold {
			continue
		}
		ranked = append(ranked, rankedChunk{chunk: chunks[i], similarity: sim})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].similarity != ranked[j].similarity {
			return ranked[i].similarity > ranked[j].similarity
		}
		if ranked[i].chunk.Index != ranked[j].chunk.Index {
			return ranked[i].chunk.Index < ranked[j].chunk.Index
		}
		return ranked[i].chunk.ID < ranked[j].chunk.ID
	})

	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}

	return ranked, nil
}
