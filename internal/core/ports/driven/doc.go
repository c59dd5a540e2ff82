// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - VectorStore: Document, chunk and embedding persistence (SQLite)
//   - EmbeddingService: Generates vector embeddings (Ollama)
//   - Parser: Extracts text and metadata from a source file format
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or parser package
package driven
