package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByDocumentId filters chunk vectors by their owning document.
type ByDocumentId struct {
	DocumentId uuid.UUID
}

func (s ByDocumentId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentId)
}

// NewestFirst orders documents by creation time, most recent first.
func NewestFirst() Specification {
	return OrderBy{Field: "created_at", Desc: true}
}
