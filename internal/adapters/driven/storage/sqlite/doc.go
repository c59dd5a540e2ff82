// Package sqlite implements the VectorStore port on an embedded SQLite
// database.
//
// The store owns three tables - documents, chunks and embeddings - and
// serialises all writes through a single logical writer. WAL journal
// mode plus a busy timeout let searches read concurrently while an
// index run is writing. Embedding vectors are stored as opaque BLOBs:
// a little-endian int32 count followed by the float32 values.
//
// Schema changes are shipped as embedded .sql migrations applied in
// version order on open.
package sqlite
