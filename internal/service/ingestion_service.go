package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"document-qa-be/internal/dto"
	"document-qa-be/internal/entity"
	"document-qa-be/internal/metrics"
	"document-qa-be/internal/pkg/apperror"
	"document-qa-be/internal/pkg/logger"
	"document-qa-be/internal/repository/contract"
	"document-qa-be/internal/repository/unitofwork"
	"document-qa-be/internal/tracer"
	"document-qa-be/pkg/embedding"
	"document-qa-be/pkg/events"
	"document-qa-be/pkg/extraction"
	"document-qa-be/pkg/rag/chunker"
	"document-qa-be/pkg/storage"

	"github.com/gabriel-vasile/mimetype"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const pipelineIngestion = "ingestion"

var acceptedContentTypes = map[string]bool{
	"":                         true,
	"application/pdf":          true,
	"application/x-pdf":        true,
	"application/octet-stream": true,
}

type IIngestionService interface {
	// Ingest stores, extracts, chunks, embeds and persists one PDF. When only
	// some chunk vectors could be stored the document is returned together
	// with a *apperror.PartialIngestionError.
	Ingest(ctx context.Context, file *dto.UploadFile) (*dto.DocumentResponse, error)
}

type ingestionService struct {
	uowFactory unitofwork.RepositoryFactory
	blobs      storage.BlobStorage
	extractor  extraction.Extractor
	embedder   embedding.Embedder
	chunker    *chunker.Chunker
	publisher  IPublisherService
	metrics    *metrics.Metrics
	logger     logger.ILogger
}

func NewIngestionService(
	uowFactory unitofwork.RepositoryFactory,
	blobs storage.BlobStorage,
	extractor extraction.Extractor,
	embedder embedding.Embedder,
	chunker *chunker.Chunker,
	publisher IPublisherService,
	metrics *metrics.Metrics,
	logger logger.ILogger,
) IIngestionService {
	return &ingestionService{
		uowFactory: uowFactory,
		blobs:      blobs,
		extractor:  extractor,
		embedder:   embedder,
		chunker:    chunker,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
	}
}

func (s *ingestionService) Ingest(ctx context.Context, file *dto.UploadFile) (*dto.DocumentResponse, error) {
	ctx, span := tracer.Tracer().Start(ctx, "ingestion.ingest")
	defer span.End()

	res, err := s.ingest(ctx, file)
	kind := apperror.KindOf(err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(kind))
		s.logger.Error("INGESTION", "Ingestion failed", map[string]interface{}{
			"filename": fileName(file),
			"kind":     kind,
			"error":    err.Error(),
		})
		s.metrics.IngestionFinished(string(kind))
		return res, err
	}

	s.metrics.IngestionFinished("success")
	return res, nil
}

func (s *ingestionService) ingest(ctx context.Context, file *dto.UploadFile) (*dto.DocumentResponse, error) {
	if err := validateUpload(file); err != nil {
		return nil, err
	}
	contentType := mimetype.Detect(file.Data).String()

	// Received: the original is kept even when a later step fails.
	if err := ctx.Err(); err != nil {
		return nil, apperror.Cancelled("storage", err)
	}
	start := time.Now()
	object, err := s.blobs.Put(ctx, file.Filename, file.Data)
	s.metrics.ObserveStep(pipelineIngestion, "store", start)
	if err != nil {
		return nil, apperror.Storage("failed to store original file", err)
	}

	// Extracted
	if err := ctx.Err(); err != nil {
		return nil, apperror.Cancelled("extraction", err)
	}
	text, err := s.extract(ctx, file.Data)
	if err != nil {
		return nil, err
	}

	// Chunked
	chunks, err := s.chunker.Chunk(text)
	if err != nil {
		return nil, apperror.New(apperror.KindInternal, "failed to chunk document", err)
	}
	if len(chunks) == 0 {
		return nil, apperror.EmptyDocument("document produced no chunks")
	}

	// Embedded
	if err := ctx.Err(); err != nil {
		return nil, apperror.Cancelled("embedding", err)
	}
	vectors, err := s.embed(ctx, chunks)
	if err != nil {
		return nil, err
	}

	// Persisted
	if err := ctx.Err(); err != nil {
		return nil, apperror.Cancelled("persistence", err)
	}
	document := &entity.Document{
		Url:         object.Url,
		StorageKey:  object.Key,
		Filename:    file.Filename,
		Text:        text,
		ContentType: contentType,
		SizeBytes:   object.Size,
		Metadata: map[string]interface{}{
			"chunkCount":        len(chunks),
			"uploadContentType": file.ContentType,
			"extractor":         s.extractor.Name(),
		},
	}

	stored, failures, err := s.persist(ctx, document, chunks, vectors)
	if err != nil {
		return nil, err
	}

	res := toDocumentResponse(document)
	if stored < len(chunks) {
		return res, &apperror.PartialIngestionError{
			DocumentId: document.Id.String(),
			Stored:     stored,
			Expected:   len(chunks),
			Failures:   failures,
		}
	}

	// Complete
	s.logger.Info("INGESTION", "Document ingested", map[string]interface{}{
		"document_id": document.Id.String(),
		"filename":    document.Filename,
		"chunks":      len(chunks),
	})
	s.publish(ctx, events.NewDocumentIngested(document.Id.String(), document.Filename, document.Url, len(chunks)))

	return res, nil
}

func (s *ingestionService) extract(ctx context.Context, data []byte) (string, error) {
	ctx, span := tracer.Tracer().Start(ctx, "ingestion.extract")
	defer span.End()
	defer s.metrics.ObserveStep(pipelineIngestion, "extract", time.Now())

	text, err := s.extractor.Extract(ctx, data)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", apperror.Cancelled("extraction", ctxErr)
		}
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return "", appErr
		}
		return "", apperror.Extraction(err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperror.EmptyDocument("no text could be extracted from the document")
	}
	span.SetAttributes(attribute.Int("text.length", len(text)))
	return text, nil
}

// embed issues a single DOCUMENT-mode call for every chunk.
func (s *ingestionService) embed(ctx context.Context, chunks []string) ([][]float32, error) {
	ctx, span := tracer.Tracer().Start(ctx, "ingestion.embed")
	defer span.End()
	defer s.metrics.ObserveStep(pipelineIngestion, "embed", time.Now())
	span.SetAttributes(attribute.Int("chunks", len(chunks)))

	return s.embedder.Embed(ctx, chunks, embedding.ModeDocument)
}

// persist writes the document first and then its chunk vectors. The document
// stays committed when some chunk inserts fail.
func (s *ingestionService) persist(
	ctx context.Context,
	document *entity.Document,
	chunks []string,
	vectors [][]float32,
) (int, []error, error) {
	ctx, span := tracer.Tracer().Start(ctx, "ingestion.persist")
	defer span.End()
	defer s.metrics.ObserveStep(pipelineIngestion, "persist", time.Now())

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Create(ctx, document); err != nil {
		return 0, nil, apperror.Storage("failed to save document", err)
	}

	inputs := make([]contract.ChunkInput, len(chunks))
	for i := range chunks {
		inputs[i] = contract.ChunkInput{Text: chunks[i], Embedding: vectors[i]}
	}

	results := uow.ChunkVectorRepository().InsertChunks(ctx, document.Id, document.Filename, inputs)
	stored := 0
	var failures []error
	for _, r := range results {
		if r.Err != nil {
			failures = append(failures, r.Err)
			s.logger.Warn("INGESTION", "Chunk vector insert failed", map[string]interface{}{
				"document_id": document.Id.String(),
				"chunk_index": r.Index,
				"error":       r.Err.Error(),
			})
			continue
		}
		stored++
	}
	s.metrics.ChunkVectorsStored(stored)
	span.SetAttributes(attribute.Int("chunks.stored", stored), attribute.Int("chunks.expected", len(chunks)))

	return stored, failures, nil
}

func (s *ingestionService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("INGESTION", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

func validateUpload(file *dto.UploadFile) error {
	if file == nil || len(file.Data) == 0 {
		return apperror.InvalidInput("no file uploaded")
	}
	if strings.TrimSpace(file.Filename) == "" {
		return apperror.InvalidInput("uploaded file has no name")
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		return apperror.UnsupportedFormat("only PDF files are supported")
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(file.ContentType, ";")[0]))
	if !acceptedContentTypes[mediaType] {
		return apperror.UnsupportedFormat("only PDF files are supported, got " + mediaType)
	}
	return nil
}

func fileName(file *dto.UploadFile) string {
	if file == nil {
		return ""
	}
	return file.Filename
}

func toDocumentResponse(d *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:          d.Id,
		Url:         d.Url,
		Filename:    d.Filename,
		Text:        d.Text,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		CreatedAt:   d.CreatedAt,
	}
}
