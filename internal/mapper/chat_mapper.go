package mapper

import (
	"time"

	"ai-legalcouncil-be/internal/entity"
	"ai-legalcouncil-be/internal/model"

	"gorm.io/gorm"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) SessionToEntity(e *model.ChatSession) *entity.ChatSession {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatSession{
		Id:         e.Id,
		SessionKey: e.SessionKey,
		DocumentId: e.DocumentId,
		DocType:    e.DocType,
		Verdict:    e.Verdict,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
		IsDeleted:  e.DeletedAt.Valid,
	}
}

func (m *ChatMapper) SessionToModel(e *entity.ChatSession) *model.ChatSession {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.ChatSession{
		Id:         e.Id,
		SessionKey: e.SessionKey,
		DocumentId: e.DocumentId,
		DocType:    e.DocType,
		Verdict:    e.Verdict,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
	}
}

func (m *ChatMapper) MessageToEntity(e *model.ChatMessage) *entity.ChatMessage {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatMessage{
		Id:            e.Id,
		Role:          e.Role,
		Content:       e.Content,
		ToolCallId:    e.ToolCallId,
		ChatSessionId: e.ChatSessionId,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     updatedAt,
		DeletedAt:     deletedAt,
		IsDeleted:     e.DeletedAt.Valid,
	}
}

func (m *ChatMapper) MessageToModel(e *entity.ChatMessage) *model.ChatMessage {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.ChatMessage{
		Id:            e.Id,
		Role:          e.Role,
		Content:       e.Content,
		ToolCallId:    e.ToolCallId,
		ChatSessionId: e.ChatSessionId,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     updatedAt,
		DeletedAt:     deletedAt,
	}
}
