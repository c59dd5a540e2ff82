package domain

// SearchOptions configures a semantic search query.
type SearchOptions struct {
	// TopK is the maximum number of results to return.
	TopK int

	// Threshold is the minimum cosine similarity for a result to be
	// included, in [-1, 1].
	Threshold float64
}

// SearchResult is a single ranked hit. It is derived at query time and
// never persisted.
type SearchResult struct {
	// Chunk is the matching chunk.
	Chunk Chunk

	// Document is the chunk's owning document, resolved for display.
	Document Document

	// Similarity is the cosine similarity against the query, in [-1, 1].
	Similarity float64
}

// IndexStats reports row counts over the three stores. In the steady
// state EmbeddingCount equals ChunkCount; a shortfall indicates a
// partially indexed file.
type IndexStats struct {
	DocumentCount  int `json:"document_count"`
	ChunkCount     int `json:"chunk_count"`
	EmbeddingCount int `json:"embedding_count"`
}
