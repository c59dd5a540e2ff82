package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyIndexed indicates a document with the same path is
	// already in the index. Indexing skips rather than overwrites.
	ErrAlreadyIndexed = errors.New("already indexed")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no parser handles the file format.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrParse indicates a supported file could not be parsed.
	// Fatal for that file; no document row is created.
	ErrParse = errors.New("parse failed")

	// ErrEmbeddingService indicates the embedding service call failed
	// (network, timeout, non-2xx, or malformed response). Recoverable
	// per chunk during indexing, fatal for a search query.
	ErrEmbeddingService = errors.New("embedding service failure")

	// ErrDimensionMismatch indicates two vectors of different lengths
	// were compared or stored into one index. Configuration error.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// PartialIndexError reports an indexing run that persisted a document
// but failed to embed some of its chunks. It is a reporting signal, not
// a rollback trigger: the successful chunks remain in the index.
type PartialIndexError struct {
	// Path is the source file.
	Path string

	// SuccessfulChunks is the number of chunks embedded and stored.
	SuccessfulChunks int

	// FailedChunks is the number of chunks whose embedding call failed.
	FailedChunks int
}

// Error implements the error interface.
func (e *PartialIndexError) Error() string {
	return fmt.Sprintf("partially indexed %s: %d of %d chunks embedded",
		e.Path, e.SuccessfulChunks, e.SuccessfulChunks+e.FailedChunks)
}
