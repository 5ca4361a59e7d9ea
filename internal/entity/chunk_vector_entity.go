package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChunkVector is one embedded segment of a document. DocumentId is a plain
// reference: removing the document does not remove its vectors.
type ChunkVector struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	Filename   string // denormalized for citations
	ChunkIndex int
	Text       string
	Embedding  []float32
	CreatedAt  time.Time
}
