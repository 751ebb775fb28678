package service

import (
	"context"

	"ai-legalcouncil-be/internal/dto"
	"ai-legalcouncil-be/internal/pkg/logger"
	"ai-legalcouncil-be/internal/repository/memory"
	"ai-legalcouncil-be/pkg/workflow"
)

type IAnalysisService interface {
	// RunAnalysis drives one document through the analysis path and streams
	// a stage-completion event per stage. The terminating event carries the
	// final state, which is also checkpointed for later chat turns.
	RunAnalysis(ctx context.Context, sessionKey string, rawText string) (<-chan dto.AnalysisEventResponse, error)
}

type analysisService struct {
	engine      *workflow.Engine
	checkpoints *memory.CheckpointRepository
	sysLogger   logger.ILogger
}

func NewAnalysisService(
	engine *workflow.Engine,
	checkpoints *memory.CheckpointRepository,
	sysLogger logger.ILogger,
) IAnalysisService {
	return &analysisService{
		engine:      engine,
		checkpoints: checkpoints,
		sysLogger:   sysLogger,
	}
}

func (s *analysisService) RunAnalysis(ctx context.Context, sessionKey string, rawText string) (<-chan dto.AnalysisEventResponse, error) {
	state := workflow.NewSessionState(rawText, workflow.ModeAnalyze)

	s.sysLogger.Info("ANALYSIS", "Starting analysis run", map[string]interface{}{
		"session_key": sessionKey,
		"document_id": state.DocumentID.String(),
		"text_length": len(rawText),
	})

	events := s.engine.Run(ctx, state)
	out := make(chan dto.AnalysisEventResponse)

	go func() {
		defer close(out)
		for ev := range events {
			if ev.Final != nil {
				s.checkpoints.Save(sessionKey, ev.Final)
				s.sysLogger.Info("ANALYSIS", "Analysis run finished", map[string]interface{}{
					"session_key": sessionKey,
					"errors":      len(ev.Final.Errors),
					"has_summary": ev.Final.FinalSummary != nil,
				})
			}
			out <- dto.AnalysisEventResponse{
				SessionKey: sessionKey,
				Stage:      string(ev.Stage),
				Patch:      ev.Patch,
				Final:      ev.Final,
			}
		}
	}()

	return out, nil
}
