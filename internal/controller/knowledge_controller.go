package controller

import (
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	AddDocuments(ctx *fiber.Ctx) error
	AddText(ctx *fiber.Ctx) error
	AddFile(ctx *fiber.Ctx) error
	Query(ctx *fiber.Ctx) error
	QueryContext(ctx *fiber.Ctx) error
	Info(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	knowledgeService service.IKnowledgeService
}

func NewKnowledgeController(knowledgeService service.IKnowledgeService) IKnowledgeController {
	return &knowledgeController{
		knowledgeService: knowledgeService,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/knowledge/v1")
	h.Post("documents", c.AddDocuments)
	h.Post("text", c.AddText)
	h.Post("file", c.AddFile)
	h.Post("query", c.Query)
	h.Post("query/context", c.QueryContext)
	h.Get("info", c.Info)
	h.Get("export", c.Export)
	h.Delete("", c.Clear)
}

func (c *knowledgeController) AddDocuments(ctx *fiber.Ctx) error {
	var req dto.AddDocumentsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.AddDocuments(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add documents", res))
}

func (c *knowledgeController) AddText(ctx *fiber.Ctx) error {
	var req dto.AddTextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.AddText(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add text", res))
}

func (c *knowledgeController) AddFile(ctx *fiber.Ctx) error {
	var req dto.AddFileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.AddFile(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add file", res))
}

func (c *knowledgeController) Query(ctx *fiber.Ctx) error {
	var req dto.QueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.Query(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success query knowledge", res))
}

func (c *knowledgeController) QueryContext(ctx *fiber.Ctx) error {
	var req dto.QueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	context, err := c.knowledgeService.QueryWithContext(ctx.Context(), req.Query, req.TopK)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success build retrieval context", &dto.QueryContextResponse{Context: context}))
}

func (c *knowledgeController) Info(ctx *fiber.Ctx) error {
	res, err := c.knowledgeService.Info(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show collection info", res))
}

// Export streams the whole collection as a JSON download.
func (c *knowledgeController) Export(ctx *fiber.Ctx) error {
	ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="knowledge_export.json"`)
	return c.knowledgeService.Export(ctx.Context(), ctx.Response().BodyWriter())
}

func (c *knowledgeController) Clear(ctx *fiber.Ctx) error {
	if err := c.knowledgeService.Clear(ctx.Context()); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear knowledge collection", nil))
}
