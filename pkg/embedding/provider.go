package embedding

import "math"

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// Task types passed through to providers that distinguish document vs query
// embeddings. Providers that don't support the distinction ignore them.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// normalizeVector normalizes a vector to unit length (magnitude = 1).
// Cosine distance in pgvector requires normalized vectors for accurate
// similarity scores, so every provider runs its output through this.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	// Avoid division by zero
	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
