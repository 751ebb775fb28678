package contract

import (
	"context"

	"ai-legalcouncil-be/internal/entity"
	"ai-legalcouncil-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredDocumentEmbedding wraps DocumentEmbedding with its similarity score
type ScoredDocumentEmbedding struct {
	Embedding  *entity.DocumentEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type DocumentEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.DocumentEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.DocumentEmbedding) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns embeddings for one document ordered by
	// cosine similarity, filtered by threshold.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, documentId uuid.UUID, threshold float64) ([]*ScoredDocumentEmbedding, error)
}
