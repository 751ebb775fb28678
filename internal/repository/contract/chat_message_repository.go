package contract

import (
	"context"

	"ai-legalcouncil-be/internal/entity"
	"ai-legalcouncil-be/internal/repository/specification"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	CreateBulk(ctx context.Context, messages []*entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
