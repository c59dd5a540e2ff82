package driving

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// SearchService provides semantic search to external actors.
type SearchService interface {
	// Search embeds the query, ranks all stored vectors by cosine
	// similarity and returns the enriched top results.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
