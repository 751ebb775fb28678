package mapper

import (
	"time"

	"ai-legalcouncil-be/internal/entity"
	"ai-legalcouncil-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentEmbeddingMapper struct{}

func NewDocumentEmbeddingMapper() *DocumentEmbeddingMapper {
	return &DocumentEmbeddingMapper{}
}

func (m *DocumentEmbeddingMapper) ToEntity(e *model.DocumentEmbedding) *entity.DocumentEmbedding {
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

	return &entity.DocumentEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		DocumentId:     e.DocumentId,
		ChunkIndex:     e.ChunkIndex,
		StartOffset:    e.StartOffset,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      e.DeletedAt.Valid,
	}
}

func (m *DocumentEmbeddingMapper) ToModel(e *entity.DocumentEmbedding) *model.DocumentEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.DocumentEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		DocumentId:     e.DocumentId,
		ChunkIndex:     e.ChunkIndex,
		StartOffset:    e.StartOffset,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}

func (m *DocumentEmbeddingMapper) ToEntities(embeddings []*model.DocumentEmbedding) []*entity.DocumentEmbedding {
	entities := make([]*entity.DocumentEmbedding, len(embeddings))
	for i, e := range embeddings {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *DocumentEmbeddingMapper) ToModels(embeddings []*entity.DocumentEmbedding) []*model.DocumentEmbedding {
	models := make([]*model.DocumentEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = m.ToModel(e)
	}
	return models
}
