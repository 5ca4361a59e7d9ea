package dto

import (
	"time"

	"github.com/google/uuid"
)

// UploadFile is the transport-neutral form of an uploaded PDF.
type UploadFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type DocumentResponse struct {
	Id          uuid.UUID `json:"_id"`
	Url         string    `json:"url"`
	Filename    string    `json:"filename"`
	Text        string    `json:"text"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	CreatedAt   time.Time `json:"createdAt"`
}

type AddDataResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Article *DocumentResponse `json:"article"`
}

type DocumentListItem struct {
	Id        uuid.UUID `json:"_id"`
	Url       string    `json:"url"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"createdAt"`
}

type ShowDocumentResponse struct {
	DocumentResponse
	ChunkCount int64 `json:"chunkCount"`
}

type DeleteDocumentResponse struct {
	Success        bool              `json:"success"`
	Message        string            `json:"message"`
	Document       *DocumentListItem `json:"document"`
	VectorsDeleted int64             `json:"vectorsDeleted"`
}
