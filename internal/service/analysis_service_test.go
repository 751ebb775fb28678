package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-legalcouncil-be/internal/dto"
	"ai-legalcouncil-be/internal/repository/memory"
	"ai-legalcouncil-be/pkg/workflow"
)

func analysisEngine() *workflow.Engine {
	return chatEngine(workflow.Patch{}, workflow.Patch{
		IsLegalDocument: workflow.BoolPtr(true),
		DocType:         workflow.StrPtr("Employment Contract"),
	})
}

func drainEvents(events <-chan dto.AnalysisEventResponse) []dto.AnalysisEventResponse {
	var out []dto.AnalysisEventResponse
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func TestRunAnalysisStreamsStageEvents(t *testing.T) {
	checkpoints := memory.NewCheckpointRepository()
	svc := NewAnalysisService(analysisEngine(), checkpoints, noopLogger{})

	events, err := svc.RunAnalysis(context.Background(), "session-1", "THIS AGREEMENT is made...")
	require.NoError(t, err)

	collected := drainEvents(events)
	require.Len(t, collected, 4)
	assert.Equal(t, string(workflow.StageValidate), collected[0].Stage)
	assert.Equal(t, string(workflow.StageTranslate), collected[3].Stage)

	for _, ev := range collected {
		assert.Equal(t, "session-1", ev.SessionKey)
	}
	for _, ev := range collected[:3] {
		assert.Nil(t, ev.Final)
	}
	require.NotNil(t, collected[3].Final)
}

func TestRunAnalysisCheckpointsFinalState(t *testing.T) {
	checkpoints := memory.NewCheckpointRepository()
	svc := NewAnalysisService(analysisEngine(), checkpoints, noopLogger{})

	events, err := svc.RunAnalysis(context.Background(), "session-1", "THIS AGREEMENT is made...")
	require.NoError(t, err)
	drainEvents(events)

	saved, found := checkpoints.Get("session-1")
	require.True(t, found)
	assert.True(t, saved.IsLegalDocument)
	assert.Equal(t, "Employment Contract", saved.DocType)
}

func TestRunAnalysisRejectedDocumentStillCheckpointed(t *testing.T) {
	// A failed run is checkpointed too: the chat path uses the stored errors
	// to explain why chat is unavailable instead of pretending the session
	// never existed.
	rejected := chatEngine(workflow.Patch{}, workflow.Patch{
		IsLegalDocument: workflow.BoolPtr(false),
		Errors:          []string{"Not a recognized legal document."},
	})
	checkpoints := memory.NewCheckpointRepository()
	svc := NewAnalysisService(rejected, checkpoints, noopLogger{})

	events, err := svc.RunAnalysis(context.Background(), "session-1", "milk, eggs, bread")
	require.NoError(t, err)

	collected := drainEvents(events)
	require.Len(t, collected, 1)
	require.NotNil(t, collected[0].Final)
	assert.NotEmpty(t, collected[0].Final.Errors)

	saved, found := checkpoints.Get("session-1")
	require.True(t, found)
	assert.Equal(t, []string{"Not a recognized legal document."}, saved.Errors)
}
