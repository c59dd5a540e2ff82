package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations make one request per call and do not retry; pacing and
// partial-failure bookkeeping belong to the indexing orchestrator, which
// keeps this port a simple, testable single-shot call.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text. Failures
	// (network, timeout, non-2xx, malformed body) wrap
	// domain.ErrEmbeddingService.
	Embed(ctx context.Context, text string) ([]float32, error)

	// ModelName returns the name of the embedding model being used.
	ModelName() string
}
