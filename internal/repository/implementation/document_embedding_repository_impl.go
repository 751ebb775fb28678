package implementation

import (
	"context"

	"ai-legalcouncil-be/internal/entity"
	"ai-legalcouncil-be/internal/mapper"
	"ai-legalcouncil-be/internal/model"
	"ai-legalcouncil-be/internal/repository/contract"
	"ai-legalcouncil-be/internal/repository/scope"
	"ai-legalcouncil-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentEmbeddingMapper
}

func NewDocumentEmbeddingRepository(db *gorm.DB) contract.DocumentEmbeddingRepository {
	return &DocumentEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentEmbeddingMapper(),
	}
}

func (r *DocumentEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DocumentEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.DocumentEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.DocumentEmbedding) error {
	models := make([]*model.DocumentEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.ToModel(e)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *DocumentEmbeddingRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("document_id = ?", documentId).Delete(&model.DocumentEmbedding{}).Error
}

func (r *DocumentEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentEmbedding, error) {
	var models []*model.DocumentEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.DocumentEmbedding, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *DocumentEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.DocumentEmbedding{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore returns embeddings with similarity scores, scoped to
// one document so a query never surfaces chunks from another session's
// contract.
func (r *DocumentEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, documentId uuid.UUID, threshold float64) ([]*contract.ScoredDocumentEmbedding, error) {
	if limit <= 0 {
		limit = 3
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding_value <=> query_vector) = cosine_similarity.
	type result struct {
		model.DocumentEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("document_embeddings").
		Select("document_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Scopes(scope.ExcludeSoftDelete).
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit)
	query = r.applySpecifications(query, specification.ByDocumentID{DocumentID: documentId})

	err := query.Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredDocumentEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredDocumentEmbedding{
			Embedding:  r.mapper.ToEntity(&res.DocumentEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
