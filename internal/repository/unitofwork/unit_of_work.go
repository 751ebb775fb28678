package unitofwork

import (
	"context"

	"ai-legalcouncil-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
}
