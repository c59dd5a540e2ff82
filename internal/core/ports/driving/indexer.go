package driving

import "context"

// FileReport summarises the outcome of indexing one file.
type FileReport struct {
	// Path is the source file.
	Path string

	// Skipped is true when the path was already indexed and no work
	// was performed.
	Skipped bool

	// ChunksTotal is the number of chunks emitted by the splitter.
	ChunksTotal int

	// ChunksEmbedded is the number of chunks whose embedding succeeded.
	ChunksEmbedded int

	// Err is the terminal error for this file, if any. A
	// *domain.PartialIndexError here means some chunks were stored
	// without embeddings.
	Err error
}

// DirectoryReport aggregates per-file outcomes for a directory run.
type DirectoryReport struct {
	// Files holds one report per file visited, in walk order.
	Files []FileReport

	// Indexed counts fully indexed files.
	Indexed int

	// Partial counts files indexed with at least one failed chunk.
	Partial int

	// Skipped counts files skipped by the already-indexed guard.
	Skipped int

	// Failed counts files that produced no document row.
	Failed int
}

// Indexer coordinates parsing, chunking, embedding and persistence.
type Indexer interface {
	// IndexFile runs the indexing state machine for a single file.
	// When force is true an existing document for the same path is
	// deleted first instead of triggering a skip.
	IndexFile(ctx context.Context, path string, force bool) (*FileReport, error)

	// IndexDirectory walks the tree, filters supported extensions and
	// indexes each match sequentially. Cancellation is honoured at the
	// per-file boundary. The progress callback, if non-nil, is invoked
	// after each file.
	IndexDirectory(ctx context.Context, dir string, progress func(FileReport)) (*DirectoryReport, error)
}
