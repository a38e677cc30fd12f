package controller

import (
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Current(ctx *fiber.Ctx) error
	Switch(ctx *fiber.Ctx) error
	Rename(ctx *fiber.Ctx) error
	AppendMessage(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Context(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
	Import(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	DeleteAll(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
	chatService    service.IChatService
}

// NewSessionController needs the chat service as well, document import rides
// on the session routes.
func NewSessionController(sessionService service.ISessionService, chatService service.IChatService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
		chatService:    chatService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	// Literal segments before the :id wildcard.
	h.Get("current", c.Current)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Delete("", c.DeleteAll)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
	h.Put(":id/rename", c.Rename)
	h.Put(":id/switch", c.Switch)
	h.Post(":id/messages", c.AppendMessage)
	h.Get(":id/history", c.History)
	h.Get(":id/context", c.Context)
	h.Post(":id/clear", c.Clear)
	h.Post(":id/import", c.Import)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	// Body is optional, an empty POST creates a session with defaults.
	var req dto.CreateSessionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	res, err := c.sessionService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *sessionController) List(ctx *fiber.Ctx) error {
	res, err := c.sessionService.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	res, err := c.sessionService.Get(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *sessionController) Current(ctx *fiber.Ctx) error {
	res, err := c.sessionService.Current(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show current session", res))
}

func (c *sessionController) Switch(ctx *fiber.Ctx) error {
	if err := c.sessionService.SwitchTo(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success switch session", nil))
}

func (c *sessionController) Rename(ctx *fiber.Ctx) error {
	var req dto.RenameSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.sessionService.Rename(ctx.Context(), ctx.Params("id"), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success rename session", nil))
}

func (c *sessionController) AppendMessage(ctx *fiber.Ctx) error {
	var req dto.AppendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.AppendMessage(ctx.Context(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success append message", res))
}

func (c *sessionController) History(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 0)

	res, err := c.sessionService.History(ctx.Context(), ctx.Params("id"), limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show history", res))
}

func (c *sessionController) Context(ctx *fiber.Ctx) error {
	res, err := c.sessionService.ContextString(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success build context", res))
}

func (c *sessionController) Clear(ctx *fiber.Ctx) error {
	if err := c.sessionService.ClearMessages(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear session messages", nil))
}

func (c *sessionController) Import(ctx *fiber.Ctx) error {
	var req dto.ImportDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.SessionID = ctx.Params("id")

	res, err := c.chatService.ImportDocument(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success import document", res))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	if err := c.sessionService.Delete(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}

func (c *sessionController) DeleteAll(ctx *fiber.Ctx) error {
	if err := c.sessionService.ClearAll(ctx.Context()); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete all sessions", nil))
}
