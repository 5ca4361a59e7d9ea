package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"document-qa-be/internal/entity"
	"document-qa-be/internal/repository/specification"

	"github.com/google/uuid"
)

// Store holds documents and chunk vectors for the memory driver. Both
// repositories built from one Store observe the same data.
type Store struct {
	mu        sync.RWMutex
	documents map[uuid.UUID]*entity.Document
	chunks    []*entity.ChunkVector
}

func NewStore() *Store {
	return &Store{
		documents: make(map[uuid.UUID]*entity.Document),
	}
}

// criteria is the subset of specifications the memory driver understands.
type criteria struct {
	id         *uuid.UUID
	documentId *uuid.UUID
	order      *specification.OrderBy
	limit      int
	offset     int
}

func parseSpecs(specs []specification.Specification) (criteria, error) {
	var c criteria
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			id := s.ID
			c.id = &id
		case specification.ByDocumentId:
			id := s.DocumentId
			c.documentId = &id
		case specification.OrderBy:
			order := s
			c.order = &order
		case specification.Pagination:
			c.limit = s.Limit
			c.offset = s.Offset
		default:
			return c, fmt.Errorf("memory store: unsupported specification %T", spec)
		}
	}
	return c, nil
}

func (c criteria) paginate(n int) (int, int) {
	start := c.offset
	if start > n {
		start = n
	}
	end := n
	if c.limit > 0 && start+c.limit < n {
		end = start + c.limit
	}
	return start, end
}

func sortDocuments(docs []*entity.Document, order *specification.OrderBy) {
	desc := order != nil && order.Desc
	if order != nil && !strings.EqualFold(order.Field, "created_at") {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if desc {
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		}
		return docs[i].CreatedAt.Before(docs[j].CreatedAt)
	})
}

func cloneDocument(d *entity.Document) *entity.Document {
	c := *d
	if d.Metadata != nil {
		c.Metadata = make(map[string]interface{}, len(d.Metadata))
		for k, v := range d.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

func cloneChunk(c *entity.ChunkVector) *entity.ChunkVector {
	out := *c
	out.Embedding = append([]float32(nil), c.Embedding...)
	return &out
}
