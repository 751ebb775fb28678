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

// AnalyzeNode runs the extracted facts against the risk playbook. It works
// from the discovery record, never the raw text; the raw text is only used
// afterwards to check that cited clauses actually appear in the document.
type AnalyzeNode struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewAnalyzeNode(provider llm.LLMProvider, logger *log.Logger) *AnalyzeNode {
	return &AnalyzeNode{provider: provider, logger: logger}
}

func (n *AnalyzeNode) Name() workflow.StageID { return workflow.StageAnalyze }

func (n *AnalyzeNode) Run(ctx context.Context, state *workflow.SessionState) workflow.Patch {
	if state.Discovery == nil {
		return workflow.Patch{
			Analysis: workflow.DegradedAnalysis("no discovery data available"),
			Errors:   []string{"Analysis error: no discovery data available"},
		}
	}

	extracted, err := json.Marshal(state.Discovery)
	if err != nil {
		return workflow.Patch{
			Analysis: workflow.DegradedAnalysis(err.Error()),
			Errors:   []string{fmt.Sprintf("Analysis error: %v", err)},
		}
	}

	history := []llm.Message{
		{Role: llm.RoleSystem, Content: fmt.Sprintf(constant.AnalyzeSystemPromptV1, constant.AnalyzePlaybookV1)},
		{Role: llm.RoleUser, Content: "Extracted Data: " + string(extracted)},
	}

	reply, err := n.provider.Chat(ctx, history, llm.WithTemperature(0), llm.WithJSONFormat())
	if err != nil {
		n.logger.Printf("[ANALYZE] provider error: %v", err)
		return workflow.Patch{
			Analysis: workflow.DegradedAnalysis(err.Error()),
			Errors:   []string{fmt.Sprintf("Analysis error: %v", err)},
		}
	}

	var record workflow.AnalysisRecord
	if err := json.Unmarshal([]byte(utils.ExtractJSON(reply.Content)), &record); err != nil {
		n.logger.Printf("[ANALYZE] malformed output: %v", err)
		return workflow.Patch{
			Analysis: workflow.DegradedAnalysis("unparseable model output"),
			Errors:   []string{fmt.Sprintf("Analysis error: malformed output: %v", err)},
		}
	}

	if record.Pros == nil {
		record.Pros = []string{}
	}
	if record.Cons == nil {
		record.Cons = []workflow.RiskItem{}
	}
	n.annotateUnverified(state.RawText, record.Cons)

	return workflow.Patch{Analysis: &record}
}

// annotateUnverified flags risks whose clause reference cannot be found in
// the document. The risk stays in the list; the user just sees it is not a
// literal quote.
func (n *AnalyzeNode) annotateUnverified(rawText string, cons []workflow.RiskItem) {
	for i := range cons {
		if cons[i].ClauseReference == "" {
			continue
		}
		if !utils.VerifyGrounding(rawText, cons[i].ClauseReference) {
			n.logger.Printf("[ANALYZE] unverified clause reference: %q", cons[i].ClauseReference)
			cons[i].ClauseReference = cons[i].ClauseReference + " (not found verbatim in document)"
		}
	}
}
