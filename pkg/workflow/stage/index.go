package stage

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"ai-legalcouncil-be/internal/constant"
	"ai-legalcouncil-be/pkg/workflow"
)

// Indexer writes a document into the retrieval index. Implementations chunk,
// embed, and persist; indexing the same text again under a new id adds new
// entries, it does not replace old ones.
type Indexer interface {
	IndexDocument(ctx context.Context, documentID uuid.UUID, text string) error
}

// IndexNode is the fire-and-forget branch of the analysis path. Its patch is
// logged, never merged: indexing failures must not affect the analysis
// outcome.
type IndexNode struct {
	indexer Indexer
	logger  *log.Logger
}

func NewIndexNode(indexer Indexer, logger *log.Logger) *IndexNode {
	return &IndexNode{indexer: indexer, logger: logger}
}

func (n *IndexNode) Name() workflow.StageID { return workflow.StageIndex }

func (n *IndexNode) Run(ctx context.Context, state *workflow.SessionState) workflow.Patch {
	if strings.TrimSpace(state.RawText) == "" {
		return workflow.ErrorPatch(constant.ErrNoTextForIndex)
	}

	if err := n.indexer.IndexDocument(ctx, state.DocumentID, state.RawText); err != nil {
		return workflow.ErrorPatch(fmt.Sprintf("Indexing error: %v", err))
	}

	n.logger.Printf("[INDEX] document %s indexed", state.DocumentID)
	return workflow.Patch{}
}
