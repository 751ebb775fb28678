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

// discoverPrefixChars bounds the extraction context. Contracts rarely hide
// the key clauses past this point, and local models choke on more.
const discoverPrefixChars = 15000

// DiscoverNode extracts the structured contract facts from the raw text.
// Failures degrade: the patch always carries a schema-shaped record, plus an
// errors entry describing what went wrong.
type DiscoverNode struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewDiscoverNode(provider llm.LLMProvider, logger *log.Logger) *DiscoverNode {
	return &DiscoverNode{provider: provider, logger: logger}
}

func (n *DiscoverNode) Name() workflow.StageID { return workflow.StageDiscover }

func (n *DiscoverNode) Run(ctx context.Context, state *workflow.SessionState) workflow.Patch {
	if state.RawText == "" {
		return workflow.ErrorPatch(constant.ErrNoTextProvided)
	}

	history := []llm.Message{
		{Role: llm.RoleSystem, Content: constant.DiscoverSystemPromptV1},
		{Role: llm.RoleUser, Content: "Contract Content:\n" + headRunes(state.RawText, discoverPrefixChars)},
	}

	reply, err := n.provider.Chat(ctx, history, llm.WithTemperature(0), llm.WithJSONFormat())
	if err != nil {
		n.logger.Printf("[DISCOVER] provider error: %v", err)
		return workflow.Patch{
			Discovery: workflow.DegradedDiscovery(err.Error()),
			Errors:    []string{fmt.Sprintf("Extraction error: %v", err)},
		}
	}

	var record workflow.DiscoveryRecord
	if err := json.Unmarshal([]byte(utils.ExtractJSON(reply.Content)), &record); err != nil {
		n.logger.Printf("[DISCOVER] malformed output: %v", err)
		return workflow.Patch{
			Discovery: workflow.DegradedDiscovery("unparseable model output"),
			Errors:    []string{fmt.Sprintf("Extraction error: malformed output: %v", err)},
		}
	}

	if record.Parties == nil {
		record.Parties = []string{}
	}
	return workflow.Patch{Discovery: &record}
}
