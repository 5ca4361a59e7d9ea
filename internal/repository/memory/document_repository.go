package memory

import (
	"context"
	"fmt"
	"time"

	"document-qa-be/internal/entity"
	"document-qa-be/internal/repository/contract"
	"document-qa-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository struct {
	store *Store
}

func NewDocumentRepository(store *Store) contract.DocumentRepository {
	return &DocumentRepository{store: store}
}

func (r *DocumentRepository) Create(ctx context.Context, document *entity.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if document.Id == uuid.Nil {
		document.Id = uuid.New()
	}
	if document.CreatedAt.IsZero() {
		document.CreatedAt = time.Now()
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.documents[document.Id]; exists {
		return fmt.Errorf("document %s already exists", document.Id)
	}
	r.store.documents[document.Id] = cloneDocument(document)
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.documents, id)
	return nil
}

func (r *DocumentRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	docs, err := r.FindAll(ctx, specs...)
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return docs[0], nil
}

func (r *DocumentRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := parseSpecs(specs)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	docs := make([]*entity.Document, 0, len(r.store.documents))
	for id, d := range r.store.documents {
		if c.id != nil && *c.id != id {
			continue
		}
		docs = append(docs, cloneDocument(d))
	}
	r.store.mu.RUnlock()

	sortDocuments(docs, c.order)
	start, end := c.paginate(len(docs))
	return docs[start:end], nil
}

func (r *DocumentRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	docs, err := r.FindAll(ctx, specs...)
	return int64(len(docs)), err
}
