package controller

import (
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IModelController interface {
	RegisterRoutes(r fiber.Router)
	ListChat(ctx *fiber.Ctx) error
	SetChat(ctx *fiber.Ctx) error
	ListEmbedding(ctx *fiber.Ctx) error
	Current(ctx *fiber.Ctx) error
}

type modelController struct {
	modelService service.IModelService
}

func NewModelController(modelService service.IModelService) IModelController {
	return &modelController{
		modelService: modelService,
	}
}

func (c *modelController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/model/v1")
	h.Get("chat", c.ListChat)
	h.Put("chat", c.SetChat)
	h.Get("embedding", c.ListEmbedding)
	h.Get("current", c.Current)
}

func (c *modelController) ListChat(ctx *fiber.Ctx) error {
	res, err := c.modelService.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list chat models", &dto.ListModelsResponse{Chat: res.Chat}))
}

func (c *modelController) SetChat(ctx *fiber.Ctx) error {
	var req dto.SetChatModelRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.modelService.SetChatModel(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set chat model", res))
}

func (c *modelController) ListEmbedding(ctx *fiber.Ctx) error {
	res, err := c.modelService.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list embedding models", &dto.ListModelsResponse{Embedding: res.Embedding}))
}

func (c *modelController) Current(ctx *fiber.Ctx) error {
	res, err := c.modelService.Current(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show current models", res))
}
