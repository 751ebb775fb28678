package controller

import (
	"bufio"
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"ai-legalcouncil-be/internal/dto"
	"ai-legalcouncil-be/internal/pkg/serverutils"
	"ai-legalcouncil-be/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendMessage(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post(":sessionKey/messages", c.SendMessage)
	h.Get(":sessionKey/messages", c.GetHistory)
}

// GetHistory returns the stored transcript for a session. Optional limit and
// offset query parameters window the transcript.
func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	sessionKey := ctx.Params("sessionKey")

	history, err := c.chatService.GetHistory(ctx.UserContext(), sessionKey, ctx.QueryInt("limit"), ctx.QueryInt("offset"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat history retrieved", history))
}

// SendMessage streams the assistant reply token by token as SSE frames,
// ending with a done frame.
func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	sessionKey := ctx.Params("sessionKey")

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	tokens, err := c.chatService.SendChat(context.Background(), sessionKey, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		for tok := range tokens {
			switch {
			case tok.Done:
				writeSSE(w, "done", tok)
			case tok.Tool != "":
				writeSSE(w, "tool_"+tok.ToolStatus, tok)
			default:
				writeSSE(w, "token", tok)
			}
		}
	}))

	return nil
}
