package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type ChunkVector struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId uuid.UUID       `gorm:"type:uuid;not null;index"`
	Filename   string          `gorm:"type:text"`
	ChunkIndex int             `gorm:"default:0"`
	Text       string          `gorm:"type:text;not null"`
	Embedding  pgvector.Vector `gorm:"type:vector"` // resized to EMBEDDING_DIMENSION by cmd/migrate
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
}

func (ChunkVector) TableName() string {
	return "chunk_vectors"
}
