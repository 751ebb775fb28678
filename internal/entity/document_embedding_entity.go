package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentEmbedding is one retrievable chunk of an analyzed document.
// Chunks are append-only: re-indexing the same text happens under a fresh
// DocumentId and never touches earlier rows.
type DocumentEmbedding struct {
	Id             uuid.UUID
	Document       string // chunk text
	EmbeddingValue []float32
	DocumentId     uuid.UUID
	ChunkIndex     int
	StartOffset    int // rune offset of the chunk in the source text
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
