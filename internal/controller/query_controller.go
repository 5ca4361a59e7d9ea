package controller

import (
	"document-qa-be/internal/dto"
	"document-qa-be/internal/pkg/apperror"
	"document-qa-be/internal/pkg/serverutils"
	"document-qa-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IQueryController interface {
	RegisterRoutes(r fiber.Router)
	QueryRag(ctx *fiber.Ctx) error
}

type queryController struct {
	retrievalService service.IRetrievalService
}

func NewQueryController(retrievalService service.IRetrievalService) IQueryController {
	return &queryController{
		retrievalService: retrievalService,
	}
}

func (c *queryController) RegisterRoutes(r fiber.Router) {
	r.Post("/query-rag", c.QueryRag)
}

func (c *queryController) QueryRag(ctx *fiber.Ctx) error {
	var req dto.QueryRagRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("request body must be JSON with a query field")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.retrievalService.Query(ctx.UserContext(), req.Query)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
