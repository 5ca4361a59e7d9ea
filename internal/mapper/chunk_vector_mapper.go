package mapper

import (
	"document-qa-be/internal/entity"
	"document-qa-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ChunkVectorMapper struct{}

func NewChunkVectorMapper() *ChunkVectorMapper {
	return &ChunkVectorMapper{}
}

func (m *ChunkVectorMapper) ToEntity(c *model.ChunkVector) *entity.ChunkVector {
	if c == nil {
		return nil
	}
	return &entity.ChunkVector{
		Id:         c.Id,
		DocumentId: c.DocumentId,
		Filename:   c.Filename,
		ChunkIndex: c.ChunkIndex,
		Text:       c.Text,
		Embedding:  c.Embedding.Slice(),
		CreatedAt:  c.CreatedAt,
	}
}

func (m *ChunkVectorMapper) ToModel(c *entity.ChunkVector) *model.ChunkVector {
	if c == nil {
		return nil
	}
	return &model.ChunkVector{
		Id:         c.Id,
		DocumentId: c.DocumentId,
		Filename:   c.Filename,
		ChunkIndex: c.ChunkIndex,
		Text:       c.Text,
		Embedding:  pgvector.NewVector(c.Embedding),
		CreatedAt:  c.CreatedAt,
	}
}
