package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"document-qa-be/internal/entity"
	"document-qa-be/internal/repository/contract"
	"document-qa-be/internal/repository/memory"
	"document-qa-be/internal/repository/unitofwork"
	"document-qa-be/pkg/embedding"
	"document-qa-be/pkg/events"
	"document-qa-be/pkg/llm"
	"document-qa-be/pkg/storage"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n")

type stubExtractor struct {
	text  string
	err   error
	hook  func()
	calls int
}

func (e *stubExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	e.calls++
	if e.hook != nil {
		e.hook()
	}
	return e.text, e.err
}

func (e *stubExtractor) Name() string { return "stub" }

type stubEmbedder struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	fallback []float32
	err      error
	calls    int
	modes    []embedding.Mode
	batches  [][]string
}

func (e *stubEmbedder) Embed(ctx context.Context, texts []string, mode embedding.Mode) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.modes = append(e.modes, mode)
	e.batches = append(e.batches, texts)
	if e.err != nil {
		return nil, e.err
	}

	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := e.vectors[t]; ok {
			out[i] = v
			continue
		}
		if e.fallback != nil {
			out[i] = e.fallback
			continue
		}
		out[i] = []float32{1, 0}
	}
	return out, nil
}

type stubLLM struct {
	answer  string
	err     error
	hook    func()
	calls   int
	systems []string
	prompts []string
}

// Chat records the system rules and the user turn of every conversation.
func (l *stubLLM) Chat(ctx context.Context, messages []llm.Message, options ...llm.Option) (string, error) {
	if err := llm.ValidateConversation(messages); err != nil {
		return "", err
	}
	l.calls++
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			l.systems = append(l.systems, m.Content)
		case llm.RoleUser:
			l.prompts = append(l.prompts, m.Content)
		}
	}
	if l.hook != nil {
		l.hook()
	}
	return l.answer, l.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func newBlobStorage(t *testing.T) *storage.FileStorage {
	t.Helper()
	blobs, err := storage.NewFileStorage(afero.NewMemMapFs(), "uploads", "http://localhost:3000/uploads")
	require.NoError(t, err)
	return blobs
}

// failingFactory wraps the in-memory factory so chosen chunk indexes fail
// to insert.
type failingFactory struct {
	inner   unitofwork.RepositoryFactory
	failIdx map[int]bool
}

func (f *failingFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &failingUnitOfWork{UnitOfWork: f.inner.NewUnitOfWork(ctx), failIdx: f.failIdx}
}

type failingUnitOfWork struct {
	unitofwork.UnitOfWork
	failIdx map[int]bool
}

func (u *failingUnitOfWork) ChunkVectorRepository() contract.ChunkVectorRepository {
	return &failingChunkRepository{ChunkVectorRepository: u.UnitOfWork.ChunkVectorRepository(), failIdx: u.failIdx}
}

type failingChunkRepository struct {
	contract.ChunkVectorRepository
	failIdx map[int]bool
}

func (r *failingChunkRepository) InsertChunks(
	ctx context.Context,
	documentId uuid.UUID,
	filename string,
	chunks []contract.ChunkInput,
) []contract.InsertResult {
	results := make([]contract.InsertResult, len(chunks))
	for i, c := range chunks {
		results[i].Index = i
		if r.failIdx[i] {
			results[i].Err = errors.New("connection reset")
			continue
		}
		cv := &entity.ChunkVector{
			DocumentId: documentId,
			Filename:   filename,
			ChunkIndex: i,
			Text:       c.Text,
			Embedding:  c.Embedding,
		}
		results[i].Err = r.Create(ctx, cv)
		results[i].Id = cv.Id
	}
	return results
}

func newMemoryFactory() (*memory.Store, unitofwork.RepositoryFactory) {
	store := memory.NewStore()
	return store, memory.NewRepositoryFactory(store)
}

func listBlobs(blobs *storage.FileStorage) ([]string, error) {
	return blobs.List(context.Background())
}
