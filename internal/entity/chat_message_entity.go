package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id            uuid.UUID
	Role          string // user, assistant, system, tool
	Content       string
	ToolCallId    string // set on tool-role messages
	ChatSessionId uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}
