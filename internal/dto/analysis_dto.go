package dto

import (
	"github.com/google/uuid"

	"ai-legalcouncil-be/pkg/workflow"
)

// AnalyzeDocumentRequest starts an analysis run. Text arrives already
// converted to markdown and scrubbed of personal data by the caller. Empty
// text is accepted here and rejected inside the workflow, so the error
// surfaces as a stage event like any other.
type AnalyzeDocumentRequest struct {
	SessionKey string `json:"session_key"`
	Text       string `json:"text"`
}

// AnalysisEventResponse is one SSE frame of the analysis stream.
type AnalysisEventResponse struct {
	SessionKey string                 `json:"session_key"`
	Stage      string                 `json:"stage"`
	Patch      workflow.Patch         `json:"patch"`
	Final      *workflow.SessionState `json:"final,omitempty"`
}

// PublishIndexDocumentMessage is the payload handed to the indexing consumer.
type PublishIndexDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
	Text       string    `json:"text"`
}
