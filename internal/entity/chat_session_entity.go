package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession groups the chat turns that follow one document analysis.
type ChatSession struct {
	Id         uuid.UUID
	SessionKey string // caller-supplied session identifier
	DocumentId uuid.UUID
	DocType    string
	Verdict    string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
