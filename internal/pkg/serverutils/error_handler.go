package serverutils

import (
	"errors"
	"fmt"

	"document-qa-be/internal/pkg/apperror"
	"document-qa-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// StatusOf maps an error kind onto an HTTP status.
func StatusOf(kind apperror.Kind) int {
	switch kind {
	case apperror.KindInvalidInput, apperror.KindUnsupportedFormat:
		return fiber.StatusBadRequest
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// NewErrorHandler renders every error returned by a handler as
// {success:false, error, kind, details}. Fiber errors keep their own code.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message, "", ""))
		}

		kind := apperror.KindOf(err)
		status := StatusOf(kind)
		if status >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"kind":   string(kind),
				"error":  err.Error(),
			})
		}

		return ctx.Status(status).JSON(ErrorResponse(headline(kind), string(kind), apperror.DetailOf(err)))
	}
}

// ErrorHandlerMiddleware turns panics into InternalError responses.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = apperror.New(apperror.KindInternal, "unexpected failure", fmt.Errorf("panic: %v", r))
			}
		}()
		return ctx.Next()
	}
}

func headline(kind apperror.Kind) string {
	switch kind {
	case apperror.KindInvalidInput:
		return "Invalid request"
	case apperror.KindUnsupportedFormat:
		return "Only PDF files are supported"
	case apperror.KindEmptyDocument:
		return "No text could be extracted from the document"
	case apperror.KindExtraction:
		return "Failed to extract text from the document"
	case apperror.KindEmbeddingService:
		return "Embedding service failed"
	case apperror.KindPartialIngestion:
		return "Document stored with missing chunk vectors"
	case apperror.KindStorage:
		return "Storage failure"
	case apperror.KindNotFound:
		return "Document not found"
	case apperror.KindSynthesis:
		return "Failed to generate an answer"
	case apperror.KindCancelled:
		return "Request cancelled"
	default:
		return "Internal server error"
	}
}
