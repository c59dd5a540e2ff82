package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/corpora-labs/corpora-cli/internal/chunker"
	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driving"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// Ensure IndexerService implements the interface.
var _ driving.Indexer = (*IndexerService)(nil)

// IndexerService coordinates parsing, chunking, embedding and
// persistence for files and directory trees.
type IndexerService struct {
	store    driven.VectorStore
	embedder driven.EmbeddingService
	parsers  []driven.Parser
	splitter *chunker.Splitter
	limiter  *rate.Limiter
}

// IndexerOption configures an IndexerService.
type IndexerOption func(*IndexerService)

// WithEmbedInterval paces embedding calls to at most one per interval.
// Zero disables pacing.
func WithEmbedInterval(interval time.Duration) IndexerOption {
	return func(s *IndexerService) {
		if interval > 0 {
			s.limiter = rate.NewLimiter(rate.Every(interval), 1)
		}
	}
}

// NewIndexerService creates a new indexer service.
func NewIndexerService(
	store driven.VectorStore,
	embedder driven.EmbeddingService,
	parsers []driven.Parser,
	splitter *chunker.Splitter,
	opts ...IndexerOption,
) *IndexerService {
	s := &IndexerService{
		store:    store,
		embedder: embedder,
		parsers:  parsers,
		splitter: splitter,
		limiter:  rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// parserFor returns the first parser that supports the path.
func (s *IndexerService) parserFor(path string) driven.Parser {
	for _, p := range s.parsers {
		if p.Supports(path) {
			return p
		}
	}
	return nil
}

// IndexFile runs the indexing state machine for a single file: parse,
// persist the document row, split into chunks, then embed and store
// each chunk's vector. Per-chunk embedding failures are recorded and
// never abort sibling chunks. The returned report's Err field mirrors
// the returned error.
func (s *IndexerService) IndexFile(ctx context.Context, path string, force bool) (*driving.FileReport, error) {
	report := &driving.FileReport{Path: path}

	abs, err := filepath.Abs(path)
	if err != nil {
		report.Err = fmt.Errorf("%w: resolve %s: %v", domain.ErrInvalidInput, path, err)
		return report, report.Err
	}
	report.Path = abs

	parser := s.parserFor(abs)
	if parser == nil {
		report.Err = fmt.Errorf("%w: %s", domain.ErrUnsupportedType, abs)
		return report, report.Err
	}

	existing, err := s.store.GetDocumentByPath(ctx, abs)
	switch {
	case err == nil && !force:
		logger.Debug("skipping already indexed file: %s", abs)
		report.Skipped = true
		return report, nil
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		report.Err = fmt.Errorf("lookup %s: %w", abs, err)
		return report, report.Err
	}

	doc, err := parser.Parse(ctx, abs)
	if err != nil {
		report.Err = err
		return report, report.Err
	}
	doc.Path = abs

	// Only drop the old entry once a replacement parsed cleanly, so a
	// corrupted file cannot destroy a good index entry.
	if existing != nil && force {
		logger.Info("force re-index, removing existing document for %s", abs)
		if err := s.store.DeleteDocument(ctx, existing.ID); err != nil {
			report.Err = fmt.Errorf("delete existing document: %w", err)
			return report, report.Err
		}
	}

	if _, err := s.store.InsertDocument(ctx, doc); err != nil {
		report.Err = fmt.Errorf("insert document: %w", err)
		return report, report.Err
	}

	pieces := s.splitter.Split(doc.Content)
	report.ChunksTotal = len(pieces)
	logger.Debug("split %s into %d chunks", abs, len(pieces))

	failed := 0
	for i, content := range pieces {
		chunk := &domain.Chunk{
			DocumentID: doc.ID,
			Content:    content,
			Index:      i,
		}
		chunkID, err := s.store.InsertChunk(ctx, chunk)
		if err != nil {
			report.Err = fmt.Errorf("insert chunk %d: %w", i, err)
			return report, report.Err
		}

		if err := s.limiter.Wait(ctx); err != nil {
			report.Err = err
			return report, report.Err
		}

		vector, err := s.embedder.Embed(ctx, content)
		if err != nil {
			logger.Warn("embedding chunk %d of %s failed: %v", i, abs, err)
			failed++
			continue
		}

		if err := s.store.InsertEmbedding(ctx, &domain.Embedding{
			ChunkID: chunkID,
			Vector:  vector,
		}); err != nil {
			report.Err = fmt.Errorf("insert embedding for chunk %d: %w", i, err)
			return report, report.Err
		}
		report.ChunksEmbedded++
	}

	if failed > 0 {
		report.Err = &domain.PartialIndexError{
			Path:             abs,
			SuccessfulChunks: report.ChunksEmbedded,
			FailedChunks:     failed,
		}
		return report, report.Err
	}

	logger.Info("indexed %s: %d chunks", abs, report.ChunksTotal)
	return report, nil
}

// IndexDirectory walks the tree and indexes every supported file in
// walk order. A file failure is recorded in the report and does not
// abort the run; cancellation and walk errors do.
func (s *IndexerService) IndexDirectory(ctx context.Context, dir string, progress func(driving.FileReport)) (*driving.DirectoryReport, error) {
	report := &driving.DirectoryReport{}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if s.parserFor(path) == nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		fileReport, _ := s.IndexFile(ctx, path, false)
		report.Files = append(report.Files, *fileReport)

		var partial *domain.PartialIndexError
		switch {
		case fileReport.Skipped:
			report.Skipped++
		case errors.As(fileReport.Err, &partial):
			report.Partial++
		case fileReport.Err != nil:
			report.Failed++
		default:
			report.Indexed++
		}

		if progress != nil {
			progress(*fileReport)
		}
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("walk %s: %w", dir, err)
	}

	return report, nil
}
