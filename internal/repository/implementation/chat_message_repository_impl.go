package implementation

import (
	"context"

	"ai-legalcouncil-be/internal/entity"
	"ai-legalcouncil-be/internal/mapper"
	"ai-legalcouncil-be/internal/model"
	"ai-legalcouncil-be/internal/repository/contract"
	"ai-legalcouncil-be/internal/repository/scope"
	"ai-legalcouncil-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ChatMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatMessageRepository(db *gorm.DB) contract.ChatMessageRepository {
	return &ChatMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatMessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatMessageRepositoryImpl) Create(ctx context.Context, message *entity.ChatMessage) error {
	m := r.mapper.MessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *ChatMessageRepositoryImpl) CreateBulk(ctx context.Context, messages []*entity.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}
	models := make([]*model.ChatMessage, len(messages))
	for i, e := range messages {
		models[i] = r.mapper.MessageToModel(e)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*messages[i] = *r.mapper.MessageToEntity(m)
	}
	return nil
}

// FindAll returns messages in chronological order so a reloaded transcript
// reads the way the conversation happened.
func (r *ChatMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var models []*model.ChatMessage
	query := r.applySpecifications(r.db.WithContext(ctx).Scopes(scope.OrderByCreatedAsc), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ChatMessage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.MessageToEntity(m)
	}
	return entities, nil
}

func (r *ChatMessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ChatMessage{}).Count(&count).Error
	return count, err
}
