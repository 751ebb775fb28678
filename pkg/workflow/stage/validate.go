package stage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"ai-legalcouncil-be/internal/constant"
	"ai-legalcouncil-be/pkg/llm"
	"ai-legalcouncil-be/pkg/utils"
	"ai-legalcouncil-be/pkg/workflow"
)

// validatePrefixChars bounds how much of the document the classifier sees.
const validatePrefixChars = 2000

// ValidateNode classifies the document head as legal / not legal. It never
// consumes the full text; classification does not need it.
type ValidateNode struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewValidateNode(provider llm.LLMProvider, logger *log.Logger) *ValidateNode {
	return &ValidateNode{provider: provider, logger: logger}
}

func (n *ValidateNode) Name() workflow.StageID { return workflow.StageValidate }

type validateResult struct {
	IsLegal bool   `json:"is_legal"`
	DocType string `json:"doc_type"`
}

func (n *ValidateNode) Run(ctx context.Context, state *workflow.SessionState) workflow.Patch {
	if strings.TrimSpace(state.RawText) == "" {
		return workflow.ErrorPatch(constant.ErrNoTextProvided)
	}

	prefix := headRunes(state.RawText, validatePrefixChars)
	history := []llm.Message{
		{Role: llm.RoleSystem, Content: constant.ValidateSystemPromptV1},
		{Role: llm.RoleUser, Content: "Document:\n" + prefix},
	}

	reply, err := n.provider.Chat(ctx, history, llm.WithTemperature(0), llm.WithJSONFormat())
	if err != nil {
		n.logger.Printf("[VALIDATE] provider error: %v", err)
		return workflow.ErrorPatch(fmt.Sprintf("Validation error: %v", err))
	}

	var result validateResult
	if err := json.Unmarshal([]byte(utils.ExtractJSON(reply.Content)), &result); err != nil {
		n.logger.Printf("[VALIDATE] malformed classifier output: %v", err)
		return workflow.ErrorPatch(fmt.Sprintf("Validation error: malformed classifier output: %v", err))
	}

	if !result.IsLegal {
		return workflow.Patch{
			IsLegalDocument: workflow.BoolPtr(false),
			Errors:          []string{constant.ErrNotLegalDocument},
		}
	}

	docType := result.DocType
	if docType == "" {
		docType = "Legal Document"
	}
	return workflow.Patch{
		IsLegalDocument: workflow.BoolPtr(true),
		DocType:         workflow.StrPtr(docType),
	}
}

// headRunes returns the first n runes without splitting a multi-byte
// character.
func headRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
