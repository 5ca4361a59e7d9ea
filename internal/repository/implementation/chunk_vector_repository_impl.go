package implementation

import (
	"context"
	"fmt"

	"document-qa-be/internal/entity"
	"document-qa-be/internal/mapper"
	"document-qa-be/internal/model"
	"document-qa-be/internal/repository/contract"
	"document-qa-be/internal/repository/specification"
	"document-qa-be/pkg/utils"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// maxEfSearch is the upper bound pgvector accepts for hnsw.ef_search.
const maxEfSearch = 1000

type ChunkVectorRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChunkVectorMapper
}

func NewChunkVectorRepository(db *gorm.DB) contract.ChunkVectorRepository {
	return &ChunkVectorRepositoryImpl{
		db:     db,
		mapper: mapper.NewChunkVectorMapper(),
	}
}

func (r *ChunkVectorRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChunkVectorRepositoryImpl) Create(ctx context.Context, chunk *entity.ChunkVector) error {
	if chunk.Id == uuid.Nil {
		chunk.Id = uuid.New()
	}
	m := r.mapper.ToModel(chunk)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chunk = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChunkVectorRepositoryImpl) InsertChunks(ctx context.Context, documentId uuid.UUID, filename string, chunks []contract.ChunkInput) []contract.InsertResult {
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

func (r *ChunkVectorRepositoryImpl) Search(ctx context.Context, query []float32, numCandidates, limit int) ([]*contract.ScoredChunk, error) {
	if limit <= 0 {
		limit = 10
	}
	if numCandidates < limit {
		numCandidates = limit
	}
	if numCandidates > maxEfSearch {
		numCandidates = maxEfSearch
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, in [0, 2].
	// Score maps it onto [0, 1]: 1 - distance/2 = (1 + cosine_similarity)/2
	type result struct {
		model.ChunkVector
		Score float64
	}
	var results []result

	queryVector := pgvector.NewVector(query)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(fmt.Sprintf("SET LOCAL hnsw.ef_search = %d", numCandidates)).Error; err != nil {
			return err
		}
		return tx.Table("chunk_vectors").
			Select("chunk_vectors.*, 1 - (embedding <=> ?) / 2 AS score", queryVector).
			Order(gorm.Expr("embedding <=> ?", queryVector)).
			Limit(limit).
			Scan(&results).Error
	})
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredChunk, len(results))
	for i := range results {
		scored[i] = &contract.ScoredChunk{
			Chunk: r.mapper.ToEntity(&results[i].ChunkVector),
			Score: clampScore(results[i].Score),
		}
	}
	return scored, nil
}

func (r *ChunkVectorRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("document_id = ?", documentId).Delete(&model.ChunkVector{})
	return result.RowsAffected, result.Error
}

func (r *ChunkVectorRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ChunkVector{}).Count(&count).Error
	return count, err
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
