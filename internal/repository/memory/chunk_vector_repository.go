package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"document-qa-be/internal/entity"
	"document-qa-be/internal/repository/contract"
	"document-qa-be/internal/repository/specification"
	"document-qa-be/pkg/utils"

	"github.com/google/uuid"
)

// ChunkVectorRepository performs exact cosine search over every stored
// chunk. numCandidates has no effect because nothing is approximated.
type ChunkVectorRepository struct {
	store *Store
}

func NewChunkVectorRepository(store *Store) contract.ChunkVectorRepository {
	return &ChunkVectorRepository{store: store}
}

func (r *ChunkVectorRepository) Create(ctx context.Context, chunk *entity.ChunkVector) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(chunk.Embedding) == 0 {
		return fmt.Errorf("chunk vector has no embedding")
	}
	if chunk.Id == uuid.Nil {
		chunk.Id = uuid.New()
	}
	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = time.Now()
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.chunks = append(r.store.chunks, cloneChunk(chunk))
	return nil
}

func (r *ChunkVectorRepository) InsertChunks(ctx context.Context, documentId uuid.UUID, filename string, chunks []contract.ChunkInput) []contract.InsertResult {
	results := make([]contract.InsertResult, len(chunks))
	errs := utils.FanOut(ctx, len(chunks), len(chunks), func(ctx context.Context, i int) error {
		chunk := &entity.ChunkVector{
			DocumentId: documentId,
			Filename:   filename,
			ChunkIndex: i,
			Text:       chunks[i].Text,
			Embedding:  chunks[i].Embedding,
		}
		if err := r.Create(ctx, chunk); err != nil {
			return err
		}
		results[i].Id = chunk.Id
		return nil
	})
	for i := range results {
		results[i].Index = i
		results[i].Err = errs[i]
	}
	return results
}

func (r *ChunkVectorRepository) Search(ctx context.Context, query []float32, numCandidates, limit int) ([]*contract.ScoredChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	r.store.mu.RLock()
	scored := make([]*contract.ScoredChunk, 0, len(r.store.chunks))
	for _, c := range r.store.chunks {
		if len(c.Embedding) != len(query) {
			continue
		}
		scored = append(scored, &contract.ScoredChunk{
			Chunk: cloneChunk(c),
			Score: (1 + cosine(query, c.Embedding)) / 2,
		})
	}
	r.store.mu.RUnlock()

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (r *ChunkVectorRepository) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.chunks[:0]
	var deleted int64
	for _, c := range r.store.chunks {
		if c.DocumentId == documentId {
			deleted++
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(r.store.chunks); i++ {
		r.store.chunks[i] = nil
	}
	r.store.chunks = kept
	return deleted, nil
}

func (r *ChunkVectorRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c, err := parseSpecs(specs)
	if err != nil {
		return 0, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, chunk := range r.store.chunks {
		if c.documentId != nil && chunk.DocumentId != *c.documentId {
			continue
		}
		if c.id != nil && chunk.Id != *c.id {
			continue
		}
		count++
	}
	return count, nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	s := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return math.Max(-1, math.Min(1, s))
}
