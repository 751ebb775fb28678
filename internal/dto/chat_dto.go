package dto

import "time"

// SendChatRequest is one user turn against an analyzed document.
type SendChatRequest struct {
	Message string `json:"message" validate:"required"`
}

// ChatTokenResponse is one SSE frame of the chat stream. Exactly one of
// Token, Tool, or Done is meaningful per frame: reply text, a retrieval
// marker (ToolStatus "start" or "end"), or the completion frame.
type ChatTokenResponse struct {
	Token      string `json:"token,omitempty"`
	Tool       string `json:"tool,omitempty"`
	ToolStatus string `json:"tool_status,omitempty"`
	Done       bool   `json:"done,omitempty"`
}

// ChatMessageResponse is one persisted transcript entry.
type ChatMessageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatHistoryResponse is the stored transcript for one session, oldest
// message first.
type ChatHistoryResponse struct {
	SessionKey string                `json:"session_key"`
	DocType    string                `json:"doc_type"`
	Verdict    string                `json:"verdict"`
	Messages   []ChatMessageResponse `json:"messages"`
}
