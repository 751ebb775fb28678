package stage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-legalcouncil-be/pkg/llm"
	"ai-legalcouncil-be/pkg/workflow"
)

func analyzeState(rawText string) *workflow.SessionState {
	state := workflow.NewSessionState(rawText, workflow.ModeAnalyze)
	state.Discovery = &workflow.DiscoveryRecord{
		Parties:          []string{"Acme Corp", "Jane Doe"},
		NonCompeteClause: "12 months within the EU",
	}
	return state
}

func TestAnalyzeNodeRequiresDiscovery(t *testing.T) {
	provider := &scriptedProvider{}
	node := NewAnalyzeNode(provider, testLogger())

	patch := node.Run(context.Background(), workflow.NewSessionState("text", workflow.ModeAnalyze))

	require.NotNil(t, patch.Analysis)
	assert.Contains(t, patch.Analysis.Summary, "Analysis degraded:")
	require.Len(t, patch.Errors, 1)
	assert.Contains(t, patch.Errors[0], "no discovery data")
	assert.Empty(t, provider.calls)
}

func TestAnalyzeNodeVerifiedClauseKeptVerbatim(t *testing.T) {
	provider := &scriptedProvider{script: []scriptedTurn{
		{reply: &llm.Reply{Content: `{
			"pros": ["Clear salary terms"],
			"cons": [{
				"category": "Non-compete",
				"severity": "High",
				"clause_reference": "12 months within the EU",
				"explanation": "Longer than six months",
				"suggestion": "Negotiate down to six months"
			}],
			"summary": "One high risk"
		}`}},
	}}
	node := NewAnalyzeNode(provider, testLogger())

	state := analyzeState("The employee shall not compete for 12 months within the EU.")
	patch := node.Run(context.Background(), state)

	require.NotNil(t, patch.Analysis)
	require.Len(t, patch.Analysis.Cons, 1)
	assert.Equal(t, "12 months within the EU", patch.Analysis.Cons[0].ClauseReference)
	assert.Empty(t, patch.Errors)
}

func TestAnalyzeNodeAnnotatesUnverifiedClause(t *testing.T) {
	provider := &scriptedProvider{script: []scriptedTurn{
		{reply: &llm.Reply{Content: `{
			"pros": [],
			"cons": [{
				"category": "Non-compete",
				"severity": "High",
				"clause_reference": "a two year worldwide restraint",
				"explanation": "Hallucinated wording",
				"suggestion": "Check the actual clause"
			}],
			"summary": "One flagged risk"
		}`}},
	}}
	node := NewAnalyzeNode(provider, testLogger())

	state := analyzeState("The employee shall not compete for 12 months within the EU.")
	patch := node.Run(context.Background(), state)

	require.NotNil(t, patch.Analysis)
	require.Len(t, patch.Analysis.Cons, 1)
	assert.Equal(t,
		"a two year worldwide restraint (not found verbatim in document)",
		patch.Analysis.Cons[0].ClauseReference,
	)
}

func TestAnalyzeNodeProviderErrorDegrades(t *testing.T) {
	provider := &scriptedProvider{script: []scriptedTurn{
		{err: errors.New("model unavailable")},
	}}
	node := NewAnalyzeNode(provider, testLogger())

	patch := node.Run(context.Background(), analyzeState("text"))

	require.NotNil(t, patch.Analysis)
	assert.Contains(t, patch.Analysis.Summary, "Analysis degraded:")
	require.Len(t, patch.Errors, 1)
	assert.Contains(t, patch.Errors[0], "Analysis error:")
}

func TestAnalyzeNodeMalformedOutputDegrades(t *testing.T) {
	provider := &scriptedProvider{script: []scriptedTurn{
		{reply: &llm.Reply{Content: "the contract seems fine to me"}},
	}}
	node := NewAnalyzeNode(provider, testLogger())

	patch := node.Run(context.Background(), analyzeState("text"))

	require.NotNil(t, patch.Analysis)
	assert.NotNil(t, patch.Analysis.Pros)
	assert.NotNil(t, patch.Analysis.Cons)
	require.Len(t, patch.Errors, 1)
	assert.Contains(t, patch.Errors[0], "malformed output")
}
