package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockStore implements driven.VectorStore in memory.
type mockStore struct {
	mu         sync.Mutex
	seq        int
	docs       map[string]*domain.Document
	docsByPath map[string]string
	chunks     []domain.Chunk
	embeddings map[string][]float32

	insertDocErr   error
	insertChunkErr error
	insertEmbErr   error
	scanErr        error
}

func newMockStore() *mockStore {
	return &mockStore{
		docs:       make(map[string]*domain.Document),
		docsByPath: make(map[string]string),
		embeddings: make(map[string][]float32),
	}
}

func (m *mockStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *mockStore) InsertDocument(_ context.Context, doc *domain.Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertDocErr != nil {
		return "", m.insertDocErr
	}
	if _, exists := m.docsByPath[doc.Path]; exists {
		return "", domain.ErrAlreadyIndexed
	}
	doc.ID = m.nextID("doc")
	copied := *doc
	m.docs[doc.ID] = &copied
	m.docsByPath[doc.Path] = doc.ID
	return doc.ID, nil
}

func (m *mockStore) InsertChunk(_ context.Context, chunk *domain.Chunk) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertChunkErr != nil {
		return "", m.insertChunkErr
	}
	chunk.ID = m.nextID("chunk")
	m.chunks = append(m.chunks, *chunk)
	return chunk.ID, nil
}

func (m *mockStore) InsertEmbedding(_ context.Context, emb *domain.Embedding) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertEmbErr != nil {
		return m.insertEmbErr
	}
	m.embeddings[emb.ChunkID] = emb.Vector
	return nil
}

func (m *mockStore) GetDocumentByPath(_ context.Context, path string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.docsByPath[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc := *m.docs[id]
	return &doc, nil
}

func (m *mockStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (m *mockStore) GetChunksByDocument(_ context.Context, documentID string) ([]domain.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Chunk
	for _, c := range m.chunks {
		if c.DocumentID == documentID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (m *mockStore) AllChunksWithEmbeddings(_ context.Context) ([]domain.Chunk, []domain.Embedding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scanErr != nil {
		return nil, nil, m.scanErr
	}
	var chunks []domain.Chunk
	var embeddings []domain.Embedding
	for _, c := range m.chunks {
		vec, ok := m.embeddings[c.ID]
		if !ok {
			continue
		}
		chunks = append(chunks, c)
		embeddings = append(embeddings, domain.Embedding{ChunkID: c.ID, Vector: vec})
	}
	return chunks, embeddings, nil
}

func (m *mockStore) DeleteDocument(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return domain.ErrNotFound
	}
	var kept []domain.Chunk
	for _, c := range m.chunks {
		if c.DocumentID == id {
			delete(m.embeddings, c.ID)
			continue
		}
		kept = append(kept, c)
	}
	m.chunks = kept
	delete(m.docsByPath, doc.Path)
	delete(m.docs, id)
	return nil
}

func (m *mockStore) ClearIndex(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = make(map[string]*domain.Document)
	m.docsByPath = make(map[string]string)
	m.chunks = nil
	m.embeddings = make(map[string][]float32)
	return nil
}

func (m *mockStore) Stats(_ context.Context) (domain.IndexStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.IndexStats{
		DocumentCount:  len(m.docs),
		ChunkCount:     len(m.chunks),
		EmbeddingCount: len(m.embeddings),
	}, nil
}

func (m *mockStore) Close() error { return nil }

// mockEmbeddingService implements driven.EmbeddingService for testing.
// embedFn, when set, overrides the fixed vector and error.
type mockEmbeddingService struct {
	mu        sync.Mutex
	embedding []float32
	embedErr  error
	embedFn   func(text string) ([]float32, error)
	calls     int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.embedFn != nil {
		return m.embedFn(text)
	}
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.embedding != nil {
		return m.embedding, nil
	}
	return []float32{1, 0, 0}, nil
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

// mockParser implements driven.Parser with configurable behaviour.
type mockParser struct {
	ext      string
	kind     domain.DocumentKind
	content  map[string]string
	parseErr error
}

func newMockParser() *mockParser {
	return &mockParser{
		ext:     ".md",
		kind:    domain.KindMarkdown,
		content: make(map[string]string),
	}
}

func (m *mockParser) Supports(path string) bool {
	return strings.HasSuffix(path, m.ext)
}

func (m *mockParser) Kind() domain.DocumentKind {
	return m.kind
}

func (m *mockParser) Parse(_ context.Context, path string) (*domain.Document, error) {
	if m.parseErr != nil {
		return nil, m.parseErr
	}
	content, ok := m.content[path]
	if !ok {
		content = "default content for " + path
	}
	return &domain.Document{
		Path:    path,
		Kind:    m.kind,
		Content: content,
	}, nil
}

var _ driven.VectorStore = (*mockStore)(nil)
var _ driven.EmbeddingService = (*mockEmbeddingService)(nil)
var _ driven.Parser = (*mockParser)(nil)
