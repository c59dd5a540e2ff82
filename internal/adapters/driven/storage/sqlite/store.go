package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is the SQLite-backed vector store holding documents, chunks and
// embeddings. The database runs in WAL mode so searches can read while
// an index run writes.
type Store struct {
	db   *sql.DB
	path string

	// dim caches the index's embedding dimensionality once known.
	// 0 means not yet observed.
	mu  sync.Mutex
	dim int
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.corpora/data/index.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".corpora", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// WAL keeps concurrent searches from blocking on the single writer;
	// busy_timeout covers the writer's lock window.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// InsertDocument stores a new document and returns its assigned ID.
// A duplicate path fails with domain.ErrAlreadyIndexed.
func (s *Store) InsertDocument(ctx context.Context, doc *domain.Document) (string, error) {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return "", fmt.Errorf("marshalling metadata: %w", err)
	}

	id := doc.ID
	if id == "" {
		id = uuid.New().String()
	}
	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, path, type, content, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, doc.Path, string(doc.Kind), doc.Content, string(metadataJSON), createdAt)

	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrAlreadyIndexed, doc.Path)
		}
		return "", fmt.Errorf("inserting document: %w", err)
	}

	doc.ID = id
	doc.CreatedAt = createdAt
	return id, nil
}

// InsertChunk stores a new chunk and returns its assigned ID.
func (s *Store) InsertChunk(ctx context.Context, chunk *domain.Chunk) (string, error) {
	id := chunk.ID
	if id == "" {
		id = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chunks (id, document_id, content, chunk_index)
		VALUES (?, ?, ?, ?)
	`, id, chunk.DocumentID, chunk.Content, chunk.Index)

	if err != nil {
		return "", fmt.Errorf("inserting chunk: %w", err)
	}

	chunk.ID = id
	return id, nil
}

// InsertEmbedding stores the embedding for a chunk. The first vector
// written fixes the index's dimensionality; later inserts that differ
// fail with domain.ErrDimensionMismatch.
func (s *Store) InsertEmbedding(ctx context.Context, emb *domain.Embedding) error {
	if len(emb.Vector) == 0 {
		return fmt.Errorf("%w: empty vector", domain.ErrInvalidInput)
	}

	if err := s.checkDimension(ctx, len(emb.Vector)); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO embeddings (chunk_id, vector) VALUES (?, ?)
	`, emb.ChunkID, encodeVector(emb.Vector))

	if err != nil {
		return fmt.Errorf("inserting embedding: %w", err)
	}
	return nil
}

// checkDimension enforces one dimensionality per index.
func (s *Store) checkDimension(ctx context.Context, dim int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dim == 0 {
		// Recover the dimension from an existing row, if any.
		var blob []byte
		err := s.db.QueryRowContext(ctx,
			"SELECT vector FROM embeddings LIMIT 1").Scan(&blob)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			s.dim = dim
			return nil
		case err != nil:
			return fmt.Errorf("reading existing vector: %w", err)
		}

		vec, err := decodeVector(blob)
		if err != nil {
			return fmt.Errorf("decoding existing vector: %w", err)
		}
		s.dim = len(vec)
	}

	if dim != s.dim {
		return fmt.Errorf("%w: index has %d, got %d", domain.ErrDimensionMismatch, s.dim, dim)
	}
	return nil
}

// GetDocumentByPath retrieves a document by source path.
func (s *Store) GetDocumentByPath(ctx context.Context, path string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, path, type, content, metadata, created_at
		FROM documents WHERE path = ?
	`, path)

	return scanDocument(row)
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, path, type, content, metadata, created_at
		FROM documents WHERE id = ?
	`, id)

	return scanDocument(row)
}

// GetChunksByDocument retrieves a document's chunks ordered by index.
func (s *Store) GetChunksByDocument(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, content, chunk_index
		FROM chunks WHERE document_id = ?
		ORDER BY chunk_index
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Content, &chunk.Index); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// AllChunksWithEmbeddings returns every (chunk, embedding) pair.
// This full scan is the cost centre of brute-force search and is an
// accepted trade-off for small-to-medium corpora.
func (s *Store) AllChunksWithEmbeddings(ctx context.Context) ([]domain.Chunk, []domain.Embedding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.document_id, c.content, c.chunk_index, e.vector
		FROM chunks c
		JOIN embeddings e ON e.chunk_id = c.id
		ORDER BY c.document_id, c.chunk_index
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("querying chunks with embeddings: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk         //nolint:prealloc // size unknown from query
	var embeddings []domain.Embedding //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var blob []byte
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Content,
			&chunk.Index, &blob); err != nil {
			return nil, nil, fmt.Errorf("scanning chunk: %w", err)
		}

		vec, err := decodeVector(blob)
		if err != nil {
			return nil, nil, fmt.Errorf("decoding vector for chunk %s: %w", chunk.ID, err)
		}

		chunks = append(chunks, chunk)
		embeddings = append(embeddings, domain.Embedding{ChunkID: chunk.ID, Vector: vec})
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, embeddings, nil
}

// DeleteDocument removes a document with its chunks and embeddings in
// dependency order.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM embeddings WHERE chunk_id IN
			(SELECT id FROM chunks WHERE document_id = ?)
	`, id); err != nil {
		return fmt.Errorf("deleting embeddings: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", id); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ClearIndex removes all rows from all three tables in dependency
// order: embeddings, then chunks, then documents.
func (s *Store) ClearIndex(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"embeddings", "chunks", "documents"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.mu.Lock()
	s.dim = 0
	s.mu.Unlock()

	return nil
}

// Stats returns row counts over the three tables.
func (s *Store) Stats(ctx context.Context) (domain.IndexStats, error) {
	var stats domain.IndexStats

	row := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM documents),
			(SELECT COUNT(*) FROM chunks),
			(SELECT COUNT(*) FROM embeddings)
	`)
	if err := row.Scan(&stats.DocumentCount, &stats.ChunkCount, &stats.EmbeddingCount); err != nil {
		return stats, fmt.Errorf("counting rows: %w", err)
	}

	return stats, nil
}

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	var kind string
	var metadataJSON sql.NullString

	if err := row.Scan(&doc.ID, &doc.Path, &kind, &doc.Content,
		&metadataJSON, &doc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Kind = domain.DocumentKind(kind)

	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}

	return &doc, nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
