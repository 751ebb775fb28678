package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"ai-legalcouncil-be/internal/dto"
	"ai-legalcouncil-be/internal/service"
)

type IAnalysisController interface {
	RegisterRoutes(r fiber.Router)
	Analyze(ctx *fiber.Ctx) error
}

type analysisController struct {
	analysisService service.IAnalysisService
}

func NewAnalysisController(analysisService service.IAnalysisService) IAnalysisController {
	return &analysisController{
		analysisService: analysisService,
	}
}

func (c *analysisController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/analysis/v1")
	h.Post("", c.Analyze)
}

// Analyze streams stage-completion events as SSE frames. The response stays
// open until the terminating event (final state) has been written.
func (c *analysisController) Analyze(ctx *fiber.Ctx) error {
	var req dto.AnalyzeDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.SessionKey == "" {
		req.SessionKey = uuid.NewString()
	}

	// Detach from the fiber context: the stream writer runs after the
	// handler returns.
	events, err := c.analysisService.RunAnalysis(context.Background(), req.SessionKey, req.Text)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		for ev := range events {
			writeSSE(w, "stage", ev)
		}
	}))

	return nil
}

// writeSSE emits one event frame and flushes so the client sees stages as
// they complete, not at stream end.
func writeSSE(w *bufio.Writer, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	w.Flush()
}
