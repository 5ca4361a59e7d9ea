package embedding

import (
	"context"
	"math"
)

// Task types understood by providers that embed documents and queries
// asymmetrically. Providers without the distinction ignore them.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// EmbeddingProvider generates one vector per input text, in input order.
type EmbeddingProvider interface {
	Generate(ctx context.Context, texts []string, taskType string) ([][]float32, error)
	Name() string
}

// normalizeVector scales vec to unit length. Zero vectors are returned as is.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
