package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a failure at the pipeline boundary.
type Kind string

const (
	KindInvalidInput      Kind = "InvalidInput"
	KindUnsupportedFormat Kind = "UnsupportedFormatError"
	KindEmptyDocument     Kind = "EmptyDocumentError"
	KindExtraction        Kind = "ExtractionError"
	KindEmbeddingService  Kind = "EmbeddingServiceError"
	KindPartialIngestion  Kind = "PartialIngestionError"
	KindStorage           Kind = "StorageError"
	KindNotFound          Kind = "NotFoundError"
	KindSynthesis         Kind = "SynthesisError"
	KindCancelled         Kind = "Cancelled"
	KindInternal          Kind = "InternalError"
)

// Error is the structured failure every service returns.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Detail is the human readable part shown to API clients.
func (e *Error) Detail() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func InvalidInput(message string) *Error {
	return New(KindInvalidInput, message, nil)
}

func UnsupportedFormat(message string) *Error {
	return New(KindUnsupportedFormat, message, nil)
}

func EmptyDocument(message string) *Error {
	return New(KindEmptyDocument, message, nil)
}

func Extraction(err error) *Error {
	return New(KindExtraction, "failed to extract text from document", err)
}

func EmbeddingService(message string, err error) *Error {
	return New(KindEmbeddingService, message, err)
}

func Storage(message string, err error) *Error {
	return New(KindStorage, message, err)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message, nil)
}

func Synthesis(err error) *Error {
	return New(KindSynthesis, "failed to synthesize answer", err)
}

// Cancelled wraps the context error observed between pipeline steps.
func Cancelled(step string, err error) *Error {
	return New(KindCancelled, fmt.Sprintf("request cancelled before %s", step), err)
}

// PartialIngestionError reports a committed document whose chunk vectors
// were only partly stored. The document is not rolled back.
type PartialIngestionError struct {
	DocumentId string
	Stored     int
	Expected   int
	Failures   []error
}

func (e *PartialIngestionError) Error() string {
	return fmt.Sprintf("%s: document %s stored %d of %d chunk vectors",
		KindPartialIngestion, e.DocumentId, e.Stored, e.Expected)
}

func (e *PartialIngestionError) Unwrap() []error {
	return e.Failures
}

// KindOf resolves the kind of any error produced by the services.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var partial *PartialIngestionError
	if errors.As(err, &partial) {
		return KindPartialIngestion
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// DetailOf returns a client safe description for err.
func DetailOf(err error) string {
	var partial *PartialIngestionError
	if errors.As(err, &partial) {
		return fmt.Sprintf("stored %d of %d chunk vectors", partial.Stored, partial.Expected)
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Detail()
	}
	return err.Error()
}
