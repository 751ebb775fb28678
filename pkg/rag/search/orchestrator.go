package search

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-legalcouncil-be/internal/repository/unitofwork"
	"ai-legalcouncil-be/pkg/embedding"

	"github.com/google/uuid"
)

// Orchestrator runs vector search over the indexed document chunks. It is the
// retrieval half of the chat tool loop: embed the question, rank chunks by
// cosine similarity, return the excerpts the model should quote from.
type Orchestrator struct {
	embeddingProvider embedding.EmbeddingProvider
	uowFactory        unitofwork.RepositoryFactory
	logger            *log.Logger
}

func NewOrchestrator(
	embeddingProvider embedding.EmbeddingProvider,
	uowFactory unitofwork.RepositoryFactory,
	logger *log.Logger,
) *Orchestrator {
	return &Orchestrator{
		embeddingProvider: embeddingProvider,
		uowFactory:        uowFactory,
		logger:            logger,
	}
}

// Config encapsulates search parameters
type Config struct {
	DBThreshold    float64
	LogicThreshold float64
	TopK           int
}

// DefaultConfig returns default search configuration
func DefaultConfig() Config {
	return Config{
		DBThreshold:    0.0,
		LogicThreshold: 0.30,
		TopK:           3,
	}
}

// Search embeds the query and returns the top-k excerpts from the given
// document, formatted for the model. An empty string means nothing relevant
// was found.
func (o *Orchestrator) Search(ctx context.Context, query string, documentID uuid.UUID, topK int) (string, error) {
	config := DefaultConfig()
	if topK > 0 {
		config.TopK = topK
	}

	embeddingRes, err := o.embeddingProvider.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return "", fmt.Errorf("embedding generation failed: %w", err)
	}

	uow := o.uowFactory.NewUnitOfWork(ctx)
	scoredResults, err := uow.DocumentEmbeddingRepository().SearchSimilarWithScore(
		ctx,
		embeddingRes.Embedding.Values,
		config.TopK,
		documentID,
		config.DBThreshold,
	)
	if err != nil {
		o.logger.Printf("[SEARCH] vector search failed: %v", err)
		return "", err
	}

	o.logger.Printf("[SEARCH] raw results: %d chunks for document %s", len(scoredResults), documentID)

	var excerpts []string
	for i, res := range scoredResults {
		if res.Similarity < config.LogicThreshold {
			o.logger.Printf("[SEARCH] chunk %d: score=%.4f [FILTERED]", i+1, res.Similarity)
			continue
		}
		o.logger.Printf("[SEARCH] chunk %d: score=%.4f [KEEP]", i+1, res.Similarity)
		excerpts = append(excerpts, fmt.Sprintf("[Excerpt %d]\n%s", len(excerpts)+1, res.Embedding.Document))
	}

	return strings.Join(excerpts, "\n\n"), nil
}
