package stage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-legalcouncil-be/internal/constant"
	"ai-legalcouncil-be/pkg/llm"
	"ai-legalcouncil-be/pkg/workflow"
)

func chatState(question string) *workflow.SessionState {
	state := workflow.NewSessionState("contract text", workflow.ModeChat)
	state.FinalSummary = &workflow.FinalSummaryRecord{DocType: "Employment Contract", Verdict: "Negotiate"}
	state.Messages = []llm.Message{{Role: llm.RoleUser, Content: question}}
	return state
}

func TestConverseNodePlainReply(t *testing.T) {
	provider := &scriptedProvider{script: []scriptedTurn{
		{reply: &llm.Reply{Content: "Yes, the notice period is two months."}},
	}}
	retriever := &fakeRetriever{}
	node := NewConverseNode(provider, retriever, testLogger())

	patch := node.Run(context.Background(), chatState("How long is my notice period?"))

	require.Len(t, patch.Messages, 1)
	assert.Equal(t, llm.RoleAssistant, patch.Messages[0].Role)
	assert.Equal(t, "Yes, the notice period is two months.", patch.Messages[0].Content)

	require.Len(t, provider.calls, 1)
	call := provider.calls[0]
	assert.Equal(t, llm.RoleSystem, call.history[0].Role)
	assert.Contains(t, call.history[0].Content, "Employment Contract")
	assert.Contains(t, call.history[0].Content, "Negotiate")
	assert.Equal(t, "How long is my notice period?", call.history[1].Content)
	assert.InDelta(t, 0.75, call.opts.Temperature, 1e-9)
	require.Len(t, call.opts.Tools, 1)
	assert.Equal(t, constant.ChatToolName, call.opts.Tools[0].Name)
	assert.Empty(t, retriever.queries)
}

func TestConverseNodeToolRound(t *testing.T) {
	provider := &scriptedProvider{script: []scriptedTurn{
		{reply: &llm.Reply{ToolCalls: []llm.ToolCall{{
			ID:        "call-1",
			Name:      constant.ChatToolName,
			Arguments: `{"query": "non-compete duration"}`,
		}}}},
		{reply: &llm.Reply{Content: "The non-compete lasts twelve months."}},
	}}
	retriever := &fakeRetriever{excerpts: "[Excerpt 1]\nnon-compete of twelve (12) months"}
	node := NewConverseNode(provider, retriever, testLogger())

	state := chatState("How long am I locked out?")
	patch := node.Run(context.Background(), state)

	// assistant tool request, tool result, then the grounded answer
	require.Len(t, patch.Messages, 3)
	assert.Equal(t, llm.RoleAssistant, patch.Messages[0].Role)
	require.Len(t, patch.Messages[0].ToolCalls, 1)
	assert.Equal(t, llm.RoleTool, patch.Messages[1].Role)
	assert.Equal(t, "call-1", patch.Messages[1].ToolCallID)
	assert.Contains(t, patch.Messages[1].Content, "[Excerpt 1]")
	assert.Equal(t, "The non-compete lasts twelve months.", patch.Messages[2].Content)

	require.Len(t, retriever.queries, 1)
	assert.Equal(t, "non-compete duration", retriever.queries[0])
	assert.Equal(t, state.DocumentID, retriever.docIDs[0])
	assert.Equal(t, converseTopK, retriever.topKs[0])

	// second model call sees the tool round-trip
	require.Len(t, provider.calls, 2)
	second := provider.calls[1].history
	assert.Equal(t, llm.RoleTool, second[len(second)-1].Role)
}

func TestConverseNodeBadToolArguments(t *testing.T) {
	provider := &scriptedProvider{script: []scriptedTurn{
		{reply: &llm.Reply{ToolCalls: []llm.ToolCall{{
			ID:        "call-1",
			Name:      constant.ChatToolName,
			Arguments: "not json at all",
		}}}},
		{reply: &llm.Reply{Content: "I couldn't find that in the document."}},
	}}
	retriever := &fakeRetriever{}
	node := NewConverseNode(provider, retriever, testLogger())

	patch := node.Run(context.Background(), chatState("What about clause 99?"))

	require.Len(t, patch.Messages, 3)
	assert.Equal(t, "No relevant excerpts found.", patch.Messages[1].Content)
	assert.Empty(t, retriever.queries, "unparseable arguments never hit the index")
}

func TestConverseNodeLeakedMarkupCorrectedOnce(t *testing.T) {
	provider := &scriptedProvider{script: []scriptedTurn{
		{reply: &llm.Reply{Content: "<function_calls><invoke name=\"search_document\">"}},
		{reply: &llm.Reply{Content: "The salary is sixty thousand a year."}},
	}}
	node := NewConverseNode(provider, &fakeRetriever{}, testLogger())

	patch := node.Run(context.Background(), chatState("What do they pay?"))

	// correction exchange stays out of the transcript
	require.Len(t, patch.Messages, 1)
	assert.Equal(t, "The salary is sixty thousand a year.", patch.Messages[0].Content)

	require.Len(t, provider.calls, 2)
	second := provider.calls[1].history
	assert.Equal(t, constant.ChatCorrectionPromptV1, second[len(second)-1].Content)
	assert.Equal(t, llm.RoleSystem, second[len(second)-1].Role)
}

func TestConverseNodePersistentLeakFallsBack(t *testing.T) {
	leaked := &llm.Reply{Content: "<function_calls>still leaking</function_calls>"}
	provider := &scriptedProvider{script: []scriptedTurn{
		{reply: leaked},
		{reply: leaked},
	}}
	node := NewConverseNode(provider, &fakeRetriever{}, testLogger())

	patch := node.Run(context.Background(), chatState("Can I freelance?"))

	require.Len(t, provider.calls, converseMaxAttempts)
	require.Len(t, patch.Messages, 1)
	assert.Equal(t, constant.ChatFallbackReplyV1, patch.Messages[0].Content)
	assert.NotContains(t, patch.Messages[0].Content, "<function_calls>")
	assert.Empty(t, patch.Errors, "a bad chat turn never poisons the session")
}

func TestConverseNodeToolLoopCapFallsBack(t *testing.T) {
	toolReply := &llm.Reply{ToolCalls: []llm.ToolCall{{
		ID:        "call-1",
		Name:      constant.ChatToolName,
		Arguments: `{"query": "termination"}`,
	}}}
	provider := &scriptedProvider{script: []scriptedTurn{
		{reply: toolReply},
		{reply: toolReply},
		{reply: toolReply},
		{reply: toolReply},
	}}
	retriever := &fakeRetriever{excerpts: "[Excerpt 1]\nnotice of termination"}
	node := NewConverseNode(provider, retriever, testLogger())

	patch := node.Run(context.Background(), chatState("How do I quit?"))

	// three served rounds, then the cap: the user gets the apology, never an
	// empty assistant message
	require.Len(t, provider.calls, converseMaxToolRounds+1)
	require.Len(t, retriever.queries, converseMaxToolRounds)
	require.NotEmpty(t, patch.Messages)
	last := patch.Messages[len(patch.Messages)-1]
	assert.Equal(t, llm.RoleAssistant, last.Role)
	assert.Equal(t, constant.ChatFallbackReplyV1, last.Content)
	assert.Empty(t, patch.Errors)
}

func TestConverseNodeEmptyReplyFallsBack(t *testing.T) {
	provider := &scriptedProvider{script: []scriptedTurn{
		{reply: &llm.Reply{Content: "   "}},
	}}
	node := NewConverseNode(provider, &fakeRetriever{}, testLogger())

	patch := node.Run(context.Background(), chatState("Anything I should know?"))

	require.Len(t, patch.Messages, 1)
	assert.Equal(t, constant.ChatFallbackReplyV1, patch.Messages[0].Content)
	assert.Empty(t, patch.Errors)
}

func TestConverseNodeProviderErrorApologizes(t *testing.T) {
	provider := &scriptedProvider{script: []scriptedTurn{
		{err: errors.New("connection reset")},
	}}
	node := NewConverseNode(provider, &fakeRetriever{}, testLogger())

	patch := node.Run(context.Background(), chatState("Hello?"))

	require.Len(t, patch.Messages, 1)
	assert.Equal(t, constant.ChatFallbackReplyV1, patch.Messages[0].Content)
	assert.Empty(t, patch.Errors)
}

func TestConverseNodeRetrievalFailureSoftens(t *testing.T) {
	provider := &scriptedProvider{script: []scriptedTurn{
		{reply: &llm.Reply{ToolCalls: []llm.ToolCall{{
			ID:        "call-1",
			Name:      constant.ChatToolName,
			Arguments: `{"query": "termination"}`,
		}}}},
		{reply: &llm.Reply{Content: "I couldn't locate that clause."}},
	}}
	retriever := &fakeRetriever{err: errors.New("database offline")}
	node := NewConverseNode(provider, retriever, testLogger())

	patch := node.Run(context.Background(), chatState("How do I quit?"))

	require.Len(t, patch.Messages, 3)
	assert.Equal(t, "No relevant excerpts found.", patch.Messages[1].Content)
}
