package service

import (
	"context"

	"document-qa-be/internal/dto"
	"document-qa-be/internal/pkg/apperror"
	"document-qa-be/internal/pkg/logger"
	"document-qa-be/internal/repository/specification"
	"document-qa-be/internal/repository/unitofwork"
	"document-qa-be/pkg/events"
	"document-qa-be/pkg/storage"

	"github.com/google/uuid"
)

type IDocumentService interface {
	// GetAll lists documents newest first. limit <= 0 returns every document.
	GetAll(ctx context.Context, limit, offset int) ([]*dto.DocumentListItem, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowDocumentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) (*dto.DeleteDocumentResponse, error)
}

type documentService struct {
	uowFactory unitofwork.RepositoryFactory
	blobs      storage.BlobStorage
	publisher  IPublisherService
	logger     logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	blobs storage.BlobStorage,
	publisher IPublisherService,
	logger logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory: uowFactory,
		blobs:      blobs,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *documentService) GetAll(ctx context.Context, limit, offset int) ([]*dto.DocumentListItem, error) {
	specs := []specification.Specification{specification.NewestFirst()}
	if limit > 0 {
		specs = append(specs, specification.Pagination{Limit: limit, Offset: max(offset, 0)})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	documents, err := uow.DocumentRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperror.Storage("failed to list documents", err)
	}

	res := make([]*dto.DocumentListItem, 0, len(documents))
	for _, d := range documents {
		res = append(res, &dto.DocumentListItem{
			Id:        d.Id,
			Url:       d.Url,
			Filename:  d.Filename,
			CreatedAt: d.CreatedAt,
		})
	}
	return res, nil
}

func (s *documentService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Storage("failed to load document", err)
	}
	if document == nil {
		return nil, apperror.NotFound("document not found")
	}

	count, err := uow.ChunkVectorRepository().Count(ctx, specification.ByDocumentId{DocumentId: id})
	if err != nil {
		return nil, apperror.Storage("failed to count chunk vectors", err)
	}

	return &dto.ShowDocumentResponse{
		DocumentResponse: *toDocumentResponse(document),
		ChunkCount:       count,
	}, nil
}

// Delete removes the document and every chunk vector that references it in
// one transaction, then drops the original blob.
func (s *documentService) Delete(ctx context.Context, id uuid.UUID) (*dto.DeleteDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Storage("failed to start transaction", err)
	}

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		uow.Rollback()
		return nil, apperror.Storage("failed to load document", err)
	}
	if document == nil {
		uow.Rollback()
		return nil, apperror.NotFound("document not found")
	}

	vectorsDeleted, err := uow.ChunkVectorRepository().DeleteByDocumentId(ctx, id)
	if err != nil {
		uow.Rollback()
		return nil, apperror.Storage("failed to delete chunk vectors", err)
	}

	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		uow.Rollback()
		return nil, apperror.Storage("failed to delete document", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Storage("failed to commit delete", err)
	}

	if s.blobs != nil && document.StorageKey != "" {
		if err := s.blobs.Delete(ctx, document.StorageKey); err != nil {
			s.logger.Warn("DOCUMENT", "Failed to delete original file", map[string]interface{}{
				"document_id": id.String(),
				"key":         document.StorageKey,
				"error":       err.Error(),
			})
		}
	}

	s.logger.Info("DOCUMENT", "Document deleted", map[string]interface{}{
		"document_id":     id.String(),
		"vectors_deleted": vectorsDeleted,
	})

	if s.publisher != nil {
		evt := events.NewDocumentDeleted(id.String(), document.Filename, vectorsDeleted)
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("DOCUMENT", "Failed to publish event", map[string]interface{}{
				"type":  evt.Type,
				"error": err.Error(),
			})
		}
	}

	return &dto.DeleteDocumentResponse{
		Success: true,
		Message: "Document and associated vectors deleted",
		Document: &dto.DocumentListItem{
			Id:        document.Id,
			Url:       document.Url,
			Filename:  document.Filename,
			CreatedAt: document.CreatedAt,
		},
		VectorsDeleted: vectorsDeleted,
	}, nil
}
