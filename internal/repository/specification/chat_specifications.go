package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

// BySessionKey filters chat sessions by the caller-supplied session key.
type BySessionKey struct {
	SessionKey string
}

func (s BySessionKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_key = ?", s.SessionKey)
}
