package memory

import (
	"context"
	"testing"

	"document-qa-be/internal/repository/contract"
	"document-qa-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchOrdersByNonIncreasingScore(t *testing.T) {
	ctx := context.Background()
	repo := NewChunkVectorRepository(NewStore())
	docId := uuid.New()

	inputs := []contract.ChunkInput{
		{Text: "orthogonal", Embedding: []float32{0, 1, 0}},
		{Text: "identical", Embedding: []float32{1, 0, 0}},
		{Text: "opposite", Embedding: []float32{-1, 0, 0}},
		{Text: "close", Embedding: []float32{0.9, 0.1, 0}},
	}
	for _, r := range repo.InsertChunks(ctx, docId, "a.pdf", inputs) {
		require.NoError(t, r.Err)
	}

	results, err := repo.Search(ctx, []float32{1, 0, 0}, 100, 10)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, "identical", results[0].Chunk.Text)
	assert.Equal(t, "close", results[1].Chunk.Text)
	assert.Equal(t, "orthogonal", results[2].Chunk.Text)
	assert.Equal(t, "opposite", results[3].Chunk.Text)

	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.InDelta(t, 0.5, results[2].Score, 1e-9)
	assert.InDelta(t, 0.0, results[3].Score, 1e-9)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
	assert.Equal(t, "a.pdf", results[0].Chunk.Filename)
}

func TestSearchRespectsLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewChunkVectorRepository(NewStore())

	inputs := make([]contract.ChunkInput, 20)
	for i := range inputs {
		inputs[i] = contract.ChunkInput{Text: "c", Embedding: []float32{float32(i + 1), 1}}
	}
	repo.InsertChunks(ctx, uuid.New(), "a.pdf", inputs)

	results, err := repo.Search(ctx, []float32{1, 0}, 100, 10)
	require.NoError(t, err)
	assert.Len(t, results, 10)
}

func TestInsertChunksReportsPerItemResults(t *testing.T) {
	ctx := context.Background()
	repo := NewChunkVectorRepository(NewStore())
	docId := uuid.New()

	results := repo.InsertChunks(ctx, docId, "a.pdf", []contract.ChunkInput{
		{Text: "ok", Embedding: []float32{1, 0}},
		{Text: "missing vector"},
		{Text: "ok too", Embedding: []float32{0, 1}},
	})

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.NotEqual(t, uuid.Nil, results[2].Id)

	count, err := repo.Count(ctx, specification.ByDocumentId{DocumentId: docId})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestDeleteByDocumentIdRemovesOnlyThatDocument(t *testing.T) {
	ctx := context.Background()
	repo := NewChunkVectorRepository(NewStore())
	keep, drop := uuid.New(), uuid.New()

	repo.InsertChunks(ctx, keep, "keep.pdf", []contract.ChunkInput{{Text: "k", Embedding: []float32{1}}})
	repo.InsertChunks(ctx, drop, "drop.pdf", []contract.ChunkInput{
		{Text: "d1", Embedding: []float32{1}},
		{Text: "d2", Embedding: []float32{1}},
	})

	deleted, err := repo.DeleteByDocumentId(ctx, drop)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := repo.Count(ctx, specification.ByDocumentId{DocumentId: drop})
	require.NoError(t, err)
	assert.Zero(t, remaining)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
