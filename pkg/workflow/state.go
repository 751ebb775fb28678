package workflow

import (
	"ai-legalcouncil-be/pkg/llm"

	"github.com/google/uuid"
)

// Mode selects the entry path for a session invocation.
type Mode string

const (
	ModeAnalyze Mode = "analyze"
	ModeChat    Mode = "chat"
)

// SessionState is the single mutable state object for one session. It is
// owned by the engine for the lifetime of a run; stages never mutate it
// directly, they return a Patch which the engine applies between stages.
type SessionState struct {
	RawText    string    `json:"-"` // immutable once set, excluded from event payloads
	Mode       Mode      `json:"mode"`
	DocumentID uuid.UUID `json:"document_id"`

	IsLegalDocument bool                `json:"is_legal_document"`
	DocType         string              `json:"doc_type,omitempty"`
	Discovery       *DiscoveryRecord    `json:"discovery,omitempty"`
	Analysis        *AnalysisRecord     `json:"analysis,omitempty"`
	FinalSummary    *FinalSummaryRecord `json:"final_summary,omitempty"`

	// Errors is append-only; a non-empty list short-circuits the analysis path.
	Errors []string `json:"errors"`

	// Messages is the conversation history. Append-only: earlier entries are
	// never altered or removed, only new ones added.
	Messages []llm.Message `json:"messages"`
}

// NewSessionState seeds a state for a fresh analysis run. The document id is
// generated per call, so re-analyzing the same text indexes under a new id.
func NewSessionState(rawText string, mode Mode) *SessionState {
	return &SessionState{
		RawText:    rawText,
		Mode:       mode,
		DocumentID: uuid.New(),
		Errors:     []string{},
		Messages:   []llm.Message{},
	}
}

// Patch is a partial state update produced by a stage. Pointer fields are
// merged only when non-nil (later patch wins, absent fields preserved);
// Errors and Messages are appended, never replaced.
type Patch struct {
	IsLegalDocument *bool               `json:"is_legal_document,omitempty"`
	DocType         *string             `json:"doc_type,omitempty"`
	Discovery       *DiscoveryRecord    `json:"discovery,omitempty"`
	Analysis        *AnalysisRecord     `json:"analysis,omitempty"`
	FinalSummary    *FinalSummaryRecord `json:"final_summary,omitempty"`
	Errors          []string            `json:"errors,omitempty"`
	Messages        []llm.Message       `json:"messages,omitempty"`
}

// IsZero reports whether the patch carries no updates at all.
func (p Patch) IsZero() bool {
	return p.IsLegalDocument == nil &&
		p.DocType == nil &&
		p.Discovery == nil &&
		p.Analysis == nil &&
		p.FinalSummary == nil &&
		len(p.Errors) == 0 &&
		len(p.Messages) == 0
}

// Apply merges a patch into the state. A stage must never erase fields it
// did not compute, so only set fields overwrite.
func (s *SessionState) Apply(p Patch) {
	if p.IsLegalDocument != nil {
		s.IsLegalDocument = *p.IsLegalDocument
	}
	if p.DocType != nil {
		s.DocType = *p.DocType
	}
	if p.Discovery != nil {
		s.Discovery = p.Discovery
	}
	if p.Analysis != nil {
		s.Analysis = p.Analysis
	}
	if p.FinalSummary != nil {
		s.FinalSummary = p.FinalSummary
	}
	s.Errors = append(s.Errors, p.Errors...)
	s.Messages = append(s.Messages, p.Messages...)
}

// Clone returns a snapshot safe to hand across goroutine boundaries
// (checkpoints, terminal events). Record pointers are shared because records
// are immutable once produced.
func (s *SessionState) Clone() *SessionState {
	c := *s
	c.Errors = append([]string(nil), s.Errors...)
	c.Messages = append([]llm.Message(nil), s.Messages...)
	return &c
}

// Helpers for building patches without taking addresses of locals inline.

func BoolPtr(b bool) *bool    { return &b }
func StrPtr(v string) *string { return &v }

// ErrorPatch wraps a single recoverable failure as a patch.
func ErrorPatch(msg string) Patch {
	return Patch{Errors: []string{msg}}
}
