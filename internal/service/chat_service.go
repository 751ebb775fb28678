package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"ai-legalcouncil-be/internal/constant"
	"ai-legalcouncil-be/internal/dto"
	"ai-legalcouncil-be/internal/entity"
	"ai-legalcouncil-be/internal/pkg/logger"
	"ai-legalcouncil-be/internal/repository/memory"
	"ai-legalcouncil-be/internal/repository/specification"
	"ai-legalcouncil-be/internal/repository/unitofwork"
	"ai-legalcouncil-be/pkg/llm"
	"ai-legalcouncil-be/pkg/workflow"
)

var ErrSessionNotFound = errors.New("no analysis found for this session")

// ChatReanalysisNotice is streamed when a chat turn arrives before a
// successful analysis and the engine had to re-run the analysis path first.
const ChatReanalysisNotice = "I had to re-analyze the document before we can chat about it. Please send your question again."

type IChatService interface {
	// SendChat answers one user message as a token stream followed by a
	// completion frame. Requires a prior RunAnalysis for the session key.
	SendChat(ctx context.Context, sessionKey string, message string) (<-chan dto.ChatTokenResponse, error)

	// GetHistory returns the persisted transcript for a session, oldest
	// message first. Tool round-trips are stored but not part of the
	// user-facing transcript. A limit of zero returns everything; the
	// window applies to the stored rows before transcript filtering.
	GetHistory(ctx context.Context, sessionKey string, limit, offset int) (*dto.ChatHistoryResponse, error)
}

type chatService struct {
	engine      *workflow.Engine
	checkpoints *memory.CheckpointRepository
	uowFactory  unitofwork.RepositoryFactory
	sysLogger   logger.ILogger
}

func NewChatService(
	engine *workflow.Engine,
	checkpoints *memory.CheckpointRepository,
	uowFactory unitofwork.RepositoryFactory,
	sysLogger logger.ILogger,
) IChatService {
	return &chatService{
		engine:      engine,
		checkpoints: checkpoints,
		uowFactory:  uowFactory,
		sysLogger:   sysLogger,
	}
}

func (s *chatService) SendChat(ctx context.Context, sessionKey string, message string) (<-chan dto.ChatTokenResponse, error) {
	prev, found := s.checkpoints.Get(sessionKey)
	if !found {
		return nil, ErrSessionNotFound
	}

	// The engine is the single writer for the run, so work on a snapshot and
	// only publish it back as the new checkpoint when the run completes.
	state := prev.Clone()
	state.Mode = workflow.ModeChat
	priorCount := len(state.Messages)
	state.Messages = append(state.Messages, llm.Message{Role: llm.RoleUser, Content: message})

	// A checkpoint that cannot chat re-enters the analysis path, which
	// indexes the document again. Each indexing pass gets its own id so the
	// new chunk rows never pile onto an id indexed before.
	if workflow.RouteEntry(state) != workflow.StageConverse {
		state.DocumentID = uuid.New()
	}

	events := s.engine.Run(ctx, state)

	var final *workflow.SessionState
	for ev := range events {
		if ev.Final != nil {
			final = ev.Final
		}
	}
	if final == nil {
		return nil, errors.New("chat run produced no final state")
	}

	s.checkpoints.Save(sessionKey, final)

	reply := lastAssistantContent(final.Messages)
	if reply == "" {
		// The guard routed this turn into the analysis path instead of chat.
		reply = ChatReanalysisNotice
	}

	newMessages := final.Messages[priorCount:]
	s.persistTurn(ctx, sessionKey, final, newMessages)

	out := make(chan dto.ChatTokenResponse)
	go func() {
		defer close(out)
		// Retrieval markers first, so the client can show what the model
		// looked up before the reply text arrives.
		for _, frame := range toolFrames(newMessages) {
			select {
			case out <- frame:
			case <-ctx.Done():
				return
			}
		}
		for _, token := range strings.SplitAfter(reply, " ") {
			select {
			case out <- dto.ChatTokenResponse{Token: token}:
			case <-ctx.Done():
				return
			}
		}
		out <- dto.ChatTokenResponse{Done: true}
	}()
	return out, nil
}

func toolFrames(messages []llm.Message) []dto.ChatTokenResponse {
	var frames []dto.ChatTokenResponse
	for _, m := range messages {
		for _, call := range m.ToolCalls {
			frames = append(frames, dto.ChatTokenResponse{Tool: call.Name, ToolStatus: "start"})
		}
		if m.Role == llm.RoleTool {
			frames = append(frames, dto.ChatTokenResponse{Tool: constant.ChatToolName, ToolStatus: "end"})
		}
	}
	return frames
}

func (s *chatService) GetHistory(ctx context.Context, sessionKey string, limit, offset int) (*dto.ChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.BySessionKey{SessionKey: sessionKey})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	specs := []specification.Specification{specification.ByChatSessionID{ChatSessionID: session.Id}}
	if limit > 0 {
		specs = append(specs, specification.Pagination{Limit: limit, Offset: offset})
	}
	rows, err := uow.ChatMessageRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	history := &dto.ChatHistoryResponse{
		SessionKey: session.SessionKey,
		DocType:    session.DocType,
		Verdict:    session.Verdict,
		Messages:   []dto.ChatMessageResponse{},
	}
	for _, row := range rows {
		if row.Role != llm.RoleUser && row.Role != llm.RoleAssistant {
			continue
		}
		if row.Content == "" {
			continue
		}
		history.Messages = append(history.Messages, dto.ChatMessageResponse{
			Role:      row.Role,
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
		})
	}
	return history, nil
}

func lastAssistantContent(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == llm.RoleAssistant && messages[i].Content != "" {
			return messages[i].Content
		}
	}
	return ""
}

// persistTurn writes the turn's messages under the session's chat row.
// Failures are logged and swallowed: the in-memory checkpoint already holds
// the authoritative history, DB persistence is for later retrieval.
func (s *chatService) persistTurn(ctx context.Context, sessionKey string, state *workflow.SessionState, newMessages []llm.Message) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.BySessionKey{SessionKey: sessionKey})
	if err != nil {
		s.sysLogger.Error("CHAT", "Failed to load chat session", map[string]interface{}{
			"session_key": sessionKey, "error": err.Error(),
		})
		return
	}
	if session == nil {
		session = &entity.ChatSession{
			Id:         uuid.New(),
			SessionKey: sessionKey,
			DocumentId: state.DocumentID,
			CreatedAt:  time.Now(),
		}
		if state.FinalSummary != nil {
			session.DocType = state.FinalSummary.DocType
			session.Verdict = state.FinalSummary.Verdict
		}
		if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
			s.sysLogger.Error("CHAT", "Failed to create chat session", map[string]interface{}{
				"session_key": sessionKey, "error": err.Error(),
			})
			return
		}
	}

	rows := make([]*entity.ChatMessage, 0, len(newMessages))
	for _, m := range newMessages {
		rows = append(rows, &entity.ChatMessage{
			Id:            uuid.New(),
			Role:          m.Role,
			Content:       m.Content,
			ToolCallId:    m.ToolCallID,
			ChatSessionId: session.Id,
			CreatedAt:     time.Now(),
		})
	}
	if err := uow.ChatMessageRepository().CreateBulk(ctx, rows); err != nil {
		s.sysLogger.Error("CHAT", "Failed to persist chat messages", map[string]interface{}{
			"session_key": sessionKey, "error": err.Error(),
		})
	}
}
