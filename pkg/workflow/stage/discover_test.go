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

func TestDiscoverNodeSuccess(t *testing.T) {
	provider := &scriptedProvider{script: []scriptedTurn{
		{reply: &llm.Reply{Content: `{
			"parties": ["Acme Corp", "Jane Doe"],
			"termination_period": "2 months notice",
			"non_compete_clause": "12 months within the EU",
			"salary_and_benefits": "EUR 60,000 per year",
			"notes": ""
		}`}},
	}}
	node := NewDiscoverNode(provider, testLogger())

	state := workflow.NewSessionState("THIS EMPLOYMENT AGREEMENT...", workflow.ModeAnalyze)
	patch := node.Run(context.Background(), state)

	require.NotNil(t, patch.Discovery)
	assert.Equal(t, []string{"Acme Corp", "Jane Doe"}, patch.Discovery.Parties)
	assert.Equal(t, "2 months notice", patch.Discovery.TerminationPeriod)
	assert.Empty(t, patch.Errors)

	require.Len(t, provider.calls, 1)
	assert.True(t, provider.calls[0].opts.JSONFormat)
	assert.Equal(t, float64(0), provider.calls[0].opts.Temperature)
}

func TestDiscoverNodeNormalizesNilParties(t *testing.T) {
	provider := &scriptedProvider{script: []scriptedTurn{
		{reply: &llm.Reply{Content: `{"termination_period": "at will"}`}},
	}}
	node := NewDiscoverNode(provider, testLogger())

	patch := node.Run(context.Background(), workflow.NewSessionState("contract text", workflow.ModeAnalyze))

	require.NotNil(t, patch.Discovery)
	assert.NotNil(t, patch.Discovery.Parties)
	assert.Empty(t, patch.Discovery.Parties)
}

func TestDiscoverNodeProviderErrorDegrades(t *testing.T) {
	provider := &scriptedProvider{script: []scriptedTurn{
		{err: errors.New("model timed out")},
	}}
	node := NewDiscoverNode(provider, testLogger())

	patch := node.Run(context.Background(), workflow.NewSessionState("contract text", workflow.ModeAnalyze))

	require.NotNil(t, patch.Discovery, "a failed extraction still yields a schema-shaped record")
	assert.Contains(t, patch.Discovery.Notes, "Extraction degraded:")
	require.Len(t, patch.Errors, 1)
	assert.Contains(t, patch.Errors[0], "Extraction error:")
}

func TestDiscoverNodeMalformedOutputDegrades(t *testing.T) {
	provider := &scriptedProvider{script: []scriptedTurn{
		{reply: &llm.Reply{Content: "I'm not sure what the parties are."}},
	}}
	node := NewDiscoverNode(provider, testLogger())

	patch := node.Run(context.Background(), workflow.NewSessionState("contract text", workflow.ModeAnalyze))

	require.NotNil(t, patch.Discovery)
	assert.Contains(t, patch.Discovery.Notes, "unparseable model output")
	require.Len(t, patch.Errors, 1)
	assert.Contains(t, patch.Errors[0], "Extraction error:")
}
