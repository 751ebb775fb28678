package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessage struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Role          string         `gorm:"type:text;not null"`
	Content       string         `gorm:"type:text"`
	ToolCallId    string         `gorm:"type:text"`
	ChatSessionId uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
