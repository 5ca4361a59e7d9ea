package controller

import (
	"io"
	"strings"

	"document-qa-be/internal/dto"
	"document-qa-be/internal/pkg/apperror"
	"document-qa-be/internal/pkg/serverutils"
	"document-qa-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	AddData(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type documentController struct {
	ingestionService service.IIngestionService
	documentService  service.IDocumentService
}

func NewDocumentController(
	ingestionService service.IIngestionService,
	documentService service.IDocumentService,
) IDocumentController {
	return &documentController{
		ingestionService: ingestionService,
		documentService:  documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	r.Post("/add-data", c.AddData)
	r.Get("/documents", c.GetAll)
	r.Get("/document/:documentId", c.Show)
	r.Delete("/document/:documentId", c.Delete)
}

func (c *documentController) AddData(ctx *fiber.Ctx) error {
	header, err := ctx.FormFile("file")
	if err != nil {
		return apperror.InvalidInput("no file uploaded")
	}

	f, err := header.Open()
	if err != nil {
		return apperror.InvalidInput("uploaded file could not be read")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return apperror.InvalidInput("uploaded file could not be read")
	}

	res, err := c.ingestionService.Ingest(ctx.UserContext(), &dto.UploadFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Data:        data,
	})
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(dto.AddDataResponse{
		Success: true,
		Message: "Document uploaded and indexed",
		Article: res,
	})
}

func (c *documentController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.documentService.GetAll(ctx.UserContext(), ctx.QueryInt("limit"), ctx.QueryInt("offset"))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *documentController) Show(ctx *fiber.Ctx) error {
	id, err := documentIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.documentService.Show(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show document", res))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	id, err := documentIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.documentService.Delete(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func documentIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw := strings.TrimSpace(ctx.Params("documentId"))
	if raw == "" {
		return uuid.Nil, apperror.InvalidInput("document id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.InvalidInput("invalid document id")
	}
	return id, nil
}
