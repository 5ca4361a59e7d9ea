package contract

import (
	"context"

	"document-qa-be/internal/entity"
	"document-qa-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ChunkInput is one segment to persist together with its embedding.
type ChunkInput struct {
	Text      string
	Embedding []float32
}

// InsertResult reports the outcome for the chunk at Index.
type InsertResult struct {
	Index int
	Id    uuid.UUID
	Err   error
}

// ScoredChunk wraps a ChunkVector with its similarity score.
type ScoredChunk struct {
	Chunk *entity.ChunkVector
	Score float64 // 0.0 to 1.0 (1.0 = identical)
}

type ChunkVectorRepository interface {
	Create(ctx context.Context, chunk *entity.ChunkVector) error
	// InsertChunks stores every chunk concurrently and returns one result per
	// input, in input order.
	InsertChunks(ctx context.Context, documentId uuid.UUID, filename string, chunks []ChunkInput) []InsertResult
	// Search returns at most limit chunks ordered by non-increasing score.
	// numCandidates bounds the approximate search breadth.
	Search(ctx context.Context, query []float32, numCandidates, limit int) ([]*ScoredChunk, error)
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) (int64, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
