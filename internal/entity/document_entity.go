package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is one ingested source file. It is written once, after its text
// has been extracted and embedded.
type Document struct {
	Id          uuid.UUID
	Url         string
	StorageKey  string
	Filename    string
	Text        string
	ContentType string
	SizeBytes   int64
	Metadata    map[string]interface{}
	CreatedAt   time.Time
}
