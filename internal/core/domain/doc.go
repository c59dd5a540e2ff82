// Package domain defines the core business entities for Corpora.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A parsed source file held in the index
//   - Chunk: A bounded text span, the unit of embedding and retrieval
//   - Embedding: The vector representation of one chunk
//   - SearchResult: A ranked hit, derived at query time
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
