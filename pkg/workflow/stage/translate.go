package stage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"ai-legalcouncil-be/internal/constant"
	"ai-legalcouncil-be/pkg/llm"
	"ai-legalcouncil-be/pkg/utils"
	"ai-legalcouncil-be/pkg/workflow"
)

// TranslateNode turns the discovery and analysis records into the final
// plain-language summary. This is the one stage allowed a bit of warmth, so
// the temperature is above zero.
type TranslateNode struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewTranslateNode(provider llm.LLMProvider, logger *log.Logger) *TranslateNode {
	return &TranslateNode{provider: provider, logger: logger}
}

func (n *TranslateNode) Name() workflow.StageID { return workflow.StageTranslate }

func (n *TranslateNode) Run(ctx context.Context, state *workflow.SessionState) workflow.Patch {
	payload := struct {
		Discovery *workflow.DiscoveryRecord `json:"discovery"`
		Analysis  *workflow.AnalysisRecord  `json:"analysis"`
	}{state.Discovery, state.Analysis}

	analysisJSON, err := json.Marshal(payload)
	if err != nil {
		return n.degrade(state, fmt.Sprintf("Summary error: %v", err))
	}

	history := []llm.Message{
		{Role: llm.RoleSystem, Content: constant.TranslateSystemPromptV1},
		{Role: llm.RoleUser, Content: "Legal Analysis Data: " + string(analysisJSON)},
	}

	reply, err := n.provider.Chat(ctx, history, llm.WithTemperature(0.3), llm.WithJSONFormat())
	if err != nil {
		n.logger.Printf("[TRANSLATE] provider error: %v", err)
		return n.degrade(state, fmt.Sprintf("Summary error: %v", err))
	}

	var record workflow.FinalSummaryRecord
	if err := json.Unmarshal([]byte(utils.ExtractJSON(reply.Content)), &record); err != nil {
		n.logger.Printf("[TRANSLATE] malformed output: %v", err)
		return n.degrade(state, fmt.Sprintf("Summary error: malformed output: %v", err))
	}

	record.DocType = state.DocType
	if record.KeyTakeaways == nil {
		record.KeyTakeaways = []workflow.SimplifiedSection{}
	}
	if record.Verdict == "" {
		record.Verdict = "Negotiate"
	}
	return workflow.Patch{FinalSummary: &record}
}

func (n *TranslateNode) degrade(state *workflow.SessionState, msg string) workflow.Patch {
	return workflow.Patch{
		FinalSummary: workflow.DegradedFinalSummary(state.DocType, msg),
		Errors:       []string{msg},
	}
}
