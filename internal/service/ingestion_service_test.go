package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"document-qa-be/internal/dto"
	"document-qa-be/internal/pkg/apperror"
	"document-qa-be/internal/pkg/logger"
	"document-qa-be/internal/repository/specification"
	"document-qa-be/internal/repository/unitofwork"
	"document-qa-be/pkg/embedding"
	"document-qa-be/pkg/events"
	"document-qa-be/pkg/rag/chunker"
	"document-qa-be/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ingestionFixture struct {
	factory   unitofwork.RepositoryFactory
	blobs     *storage.FileStorage
	extractor *stubExtractor
	embedder  *stubEmbedder
	publisher *recordingPublisher
	service   IIngestionService
}

func newIngestionFixture(t *testing.T, factory unitofwork.RepositoryFactory, text string) *ingestionFixture {
	t.Helper()
	c, err := chunker.New(chunker.DefaultOptions())
	require.NoError(t, err)

	f := &ingestionFixture{
		factory:   factory,
		blobs:     newBlobStorage(t),
		extractor: &stubExtractor{text: text},
		embedder:  &stubEmbedder{},
		publisher: &recordingPublisher{},
	}
	f.service = NewIngestionService(f.factory, f.blobs, f.extractor, f.embedder, c, f.publisher, nil, logger.NewNopLogger())
	return f
}

func (f *ingestionFixture) counts(t *testing.T) (int64, int64) {
	t.Helper()
	ctx := context.Background()
	uow := f.factory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().Count(ctx)
	require.NoError(t, err)
	vectors, err := uow.ChunkVectorRepository().Count(ctx)
	require.NoError(t, err)
	return docs, vectors
}

func upload(name string) *dto.UploadFile {
	return &dto.UploadFile{Filename: name, ContentType: "application/pdf", Data: pdfBytes}
}

func TestIngestEndToEnd(t *testing.T) {
	_, factory := newMemoryFactory()
	f := newIngestionFixture(t, factory, strings.Repeat("x", 2500))

	res, err := f.service.Ingest(context.Background(), upload("report.pdf"))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.Id)
	assert.Equal(t, "report.pdf", res.Filename)
	assert.Equal(t, 2500, len(res.Text))
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.True(t, strings.HasPrefix(res.Url, "http://localhost:3000/uploads/"))
	assert.False(t, res.CreatedAt.IsZero())

	docs, vectors := f.counts(t)
	assert.EqualValues(t, 1, docs)
	assert.EqualValues(t, 3, vectors)

	// One batched DOCUMENT-mode call for every chunk.
	require.Equal(t, 1, f.embedder.calls)
	assert.Equal(t, embedding.ModeDocument, f.embedder.modes[0])
	assert.Len(t, f.embedder.batches[0], 3)

	ctx := context.Background()
	chunks, err := f.factory.NewUnitOfWork(ctx).ChunkVectorRepository().Count(ctx,
		specification.ByDocumentId{DocumentId: res.Id})
	require.NoError(t, err)
	assert.EqualValues(t, 3, chunks)

	assert.Equal(t, []string{events.DocumentIngested}, f.publisher.types())
}

func TestIngestStoresBlobBeforeExtraction(t *testing.T) {
	_, factory := newMemoryFactory()
	f := newIngestionFixture(t, factory, "")
	f.extractor.err = errors.New("malformed xref table")

	_, err := f.service.Ingest(context.Background(), upload("broken.pdf"))
	require.Error(t, err)
	assert.Equal(t, apperror.KindExtraction, apperror.KindOf(err))

	files, err := listBlobs(f.blobs)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	docs, vectors := f.counts(t)
	assert.Zero(t, docs)
	assert.Zero(t, vectors)
}

func TestIngestRejectsInvalidUploads(t *testing.T) {
	tests := []struct {
		name string
		file *dto.UploadFile
		kind apperror.Kind
	}{
		{"missing file", nil, apperror.KindInvalidInput},
		{"empty data", &dto.UploadFile{Filename: "a.pdf"}, apperror.KindInvalidInput},
		{"wrong extension", &dto.UploadFile{Filename: "notes.docx", Data: pdfBytes}, apperror.KindUnsupportedFormat},
		{"wrong content type", &dto.UploadFile{Filename: "a.pdf", ContentType: "image/png", Data: pdfBytes}, apperror.KindUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, factory := newMemoryFactory()
			f := newIngestionFixture(t, factory, "text")

			_, err := f.service.Ingest(context.Background(), tt.file)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
			assert.Zero(t, f.extractor.calls)
		})
	}
}

func TestIngestAcceptsUppercaseExtension(t *testing.T) {
	_, factory := newMemoryFactory()
	f := newIngestionFixture(t, factory, "short text")

	_, err := f.service.Ingest(context.Background(),
		&dto.UploadFile{Filename: "SCAN.PDF", ContentType: "application/octet-stream", Data: pdfBytes})
	require.NoError(t, err)
}

func TestIngestEmptyDocument(t *testing.T) {
	_, factory := newMemoryFactory()
	f := newIngestionFixture(t, factory, "  \n\n  ")

	_, err := f.service.Ingest(context.Background(), upload("blank.pdf"))
	assert.Equal(t, apperror.KindEmptyDocument, apperror.KindOf(err))
	assert.Zero(t, f.embedder.calls)
}

func TestIngestEmbeddingFailurePersistsNothing(t *testing.T) {
	_, factory := newMemoryFactory()
	f := newIngestionFixture(t, factory, strings.Repeat("y", 1500))
	f.embedder.err = apperror.EmbeddingService("embedding request failed", errors.New("503"))

	_, err := f.service.Ingest(context.Background(), upload("a.pdf"))
	assert.Equal(t, apperror.KindEmbeddingService, apperror.KindOf(err))

	docs, vectors := f.counts(t)
	assert.Zero(t, docs)
	assert.Zero(t, vectors)
	assert.Empty(t, f.publisher.types())
}

func TestIngestPartialFailureKeepsDocument(t *testing.T) {
	_, inner := newMemoryFactory()
	factory := &failingFactory{inner: inner, failIdx: map[int]bool{1: true}}
	f := newIngestionFixture(t, factory, strings.Repeat("z", 2500))

	res, err := f.service.Ingest(context.Background(), upload("partial.pdf"))
	require.Error(t, err)
	require.NotNil(t, res)

	var partial *apperror.PartialIngestionError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 2, partial.Stored)
	assert.Equal(t, 3, partial.Expected)
	assert.Equal(t, res.Id.String(), partial.DocumentId)

	docs, vectors := f.counts(t)
	assert.EqualValues(t, 1, docs)
	assert.EqualValues(t, 2, vectors)
}

func TestIngestCancelledBetweenSteps(t *testing.T) {
	_, factory := newMemoryFactory()
	f := newIngestionFixture(t, factory, strings.Repeat("x", 2500))

	ctx, cancel := context.WithCancel(context.Background())
	f.extractor.hook = cancel

	_, err := f.service.Ingest(ctx, upload("a.pdf"))
	assert.Equal(t, apperror.KindCancelled, apperror.KindOf(err))
	assert.Zero(t, f.embedder.calls)

	docs, _ := f.counts(t)
	assert.Zero(t, docs)
}

func TestIngestCancelledDuringExtraction(t *testing.T) {
	_, factory := newMemoryFactory()
	f := newIngestionFixture(t, factory, "")

	ctx, cancel := context.WithCancel(context.Background())
	f.extractor.hook = cancel
	f.extractor.err = errors.New("pdf: read aborted")

	_, err := f.service.Ingest(ctx, upload("a.pdf"))
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindCancelled, appErr.Kind)
	assert.Equal(t, "request cancelled before extraction", appErr.Message)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, f.embedder.calls)
}

func TestIngestCancelledBeforeStart(t *testing.T) {
	_, factory := newMemoryFactory()
	f := newIngestionFixture(t, factory, "text")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service.Ingest(ctx, upload("a.pdf"))
	assert.Equal(t, apperror.KindCancelled, apperror.KindOf(err))

	files, err := listBlobs(f.blobs)
	require.NoError(t, err)
	assert.Empty(t, files)
}
