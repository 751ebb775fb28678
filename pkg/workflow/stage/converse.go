package stage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"ai-legalcouncil-be/internal/constant"
	"ai-legalcouncil-be/pkg/llm"
	"ai-legalcouncil-be/pkg/workflow"
)

// Retriever finds document excerpts relevant to a free-text question.
type Retriever interface {
	Search(ctx context.Context, query string, documentID uuid.UUID, topK int) (string, error)
}

const (
	// converseMaxAttempts bounds model turns per user message. Two attempts
	// matches the correction-then-fallback protocol: one honest try, one
	// try after the correction nudge.
	converseMaxAttempts = 2

	// converseMaxToolRounds caps retrieval round-trips inside one attempt so
	// a model stuck requesting the tool cannot loop forever.
	converseMaxToolRounds = 3

	converseTopK = 3
)

// leakMarkers are literal tool-call syntax fragments that local models
// sometimes emit as visible text instead of a structured tool request.
var leakMarkers = []string{"<function_calls>", "<invoke>"}

// ConverseNode answers one user message, optionally grounded by document
// retrieval through the search_document tool. It never surfaces leaked
// tool-call markup: a leaked reply gets one corrective retry, then the fixed
// apology.
type ConverseNode struct {
	provider  llm.LLMProvider
	retriever Retriever
	logger    *log.Logger
}

func NewConverseNode(provider llm.LLMProvider, retriever Retriever, logger *log.Logger) *ConverseNode {
	return &ConverseNode{provider: provider, retriever: retriever, logger: logger}
}

func (n *ConverseNode) Name() workflow.StageID { return workflow.StageConverse }

func searchDocumentTool() llm.Tool {
	return llm.Tool{
		Name:        constant.ChatToolName,
		Description: constant.ChatToolDescription,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural-language question about the document",
				},
			},
			"required": []string{"query"},
		},
	}
}

func (n *ConverseNode) Run(ctx context.Context, state *workflow.SessionState) workflow.Patch {
	docType := "the agreement"
	verdict := "N/A"
	if state.FinalSummary != nil {
		if state.FinalSummary.DocType != "" {
			docType = state.FinalSummary.DocType
		}
		if state.FinalSummary.Verdict != "" {
			verdict = state.FinalSummary.Verdict
		}
	}

	system := llm.Message{
		Role:    llm.RoleSystem,
		Content: fmt.Sprintf(constant.ChatSystemPromptV1, docType, verdict),
	}

	// Working history starts as [system, prior messages]; tool round-trips
	// are appended to it AND to the patch so the session keeps a faithful
	// transcript. Correction exchanges stay local: they are protocol noise,
	// not conversation.
	working := make([]llm.Message, 0, len(state.Messages)+1)
	working = append(working, system)
	working = append(working, state.Messages...)

	var persisted []llm.Message

	for attempt := 0; attempt < converseMaxAttempts; attempt++ {
		reply, err := n.converseOnce(ctx, state.DocumentID, &working, &persisted)
		if err != nil {
			n.logger.Printf("[CONVERSE] attempt failed: %v", err)
			persisted = append(persisted, llm.Message{Role: llm.RoleAssistant, Content: constant.ChatFallbackReplyV1})
			return workflow.Patch{Messages: persisted}
		}

		if hasLeakedMarkup(reply.Content) {
			n.logger.Printf("[CONVERSE] leaked tool markup, attempt %d", attempt+1)
			working = append(working,
				llm.Message{Role: llm.RoleAssistant, Content: reply.Content},
				llm.Message{Role: llm.RoleSystem, Content: constant.ChatCorrectionPromptV1},
			)
			continue
		}

		// An empty reply never reaches the transcript.
		if strings.TrimSpace(reply.Content) == "" {
			n.logger.Printf("[CONVERSE] empty reply, attempt %d", attempt+1)
			persisted = append(persisted, llm.Message{Role: llm.RoleAssistant, Content: constant.ChatFallbackReplyV1})
			return workflow.Patch{Messages: persisted}
		}

		persisted = append(persisted, llm.Message{Role: llm.RoleAssistant, Content: reply.Content})
		return workflow.Patch{Messages: persisted}
	}

	persisted = append(persisted, llm.Message{Role: llm.RoleAssistant, Content: constant.ChatFallbackReplyV1})
	return workflow.Patch{Messages: persisted}
}

// converseOnce runs one attempt: invoke the model, serve tool requests, and
// return the first reply that is plain text (leaked or not, the caller
// inspects it). A model still requesting the tool after the last served
// round is an error, never a reply.
func (n *ConverseNode) converseOnce(ctx context.Context, documentID uuid.UUID, working, persisted *[]llm.Message) (*llm.Reply, error) {
	for round := 0; ; round++ {
		reply, err := n.provider.Chat(ctx, *working,
			llm.WithTemperature(0.75),
			llm.WithTools(searchDocumentTool()),
		)
		if err != nil {
			return nil, err
		}

		if len(reply.ToolCalls) == 0 {
			return reply, nil
		}
		if round == converseMaxToolRounds {
			return nil, fmt.Errorf("tool round limit exceeded with a pending tool request")
		}

		assistantMsg := llm.Message{Role: llm.RoleAssistant, Content: reply.Content, ToolCalls: reply.ToolCalls}
		*working = append(*working, assistantMsg)
		*persisted = append(*persisted, assistantMsg)

		for _, call := range reply.ToolCalls {
			result := n.executeTool(ctx, documentID, call)
			toolMsg := llm.Message{Role: llm.RoleTool, Content: result, ToolCallID: call.ID}
			*working = append(*working, toolMsg)
			*persisted = append(*persisted, toolMsg)
		}
	}
}

func (n *ConverseNode) executeTool(ctx context.Context, documentID uuid.UUID, call llm.ToolCall) string {
	if call.Name != constant.ChatToolName {
		n.logger.Printf("[CONVERSE] unknown tool requested: %s", call.Name)
		return "Unknown tool."
	}

	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil || strings.TrimSpace(args.Query) == "" {
		n.logger.Printf("[CONVERSE] bad tool arguments: %s", call.Arguments)
		return "No relevant excerpts found."
	}

	excerpts, err := n.retriever.Search(ctx, args.Query, documentID, converseTopK)
	if err != nil {
		n.logger.Printf("[CONVERSE] retrieval error: %v", err)
		return "No relevant excerpts found."
	}
	if strings.TrimSpace(excerpts) == "" {
		return "No relevant excerpts found."
	}
	return excerpts
}

func hasLeakedMarkup(content string) bool {
	for _, marker := range leakMarkers {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}
