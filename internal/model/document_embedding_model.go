package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 / nomic-embed-text are 768-dim
	DocumentId     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ChunkIndex     int             `gorm:"default:0"`
	StartOffset    int             `gorm:"default:0"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

func (DocumentEmbedding) TableName() string {
	return "document_embeddings"
}
