package embedding

import (
	"context"
	"errors"
	"math"
)

// ErrUnavailable signals that the embedding provider is not configured or not
// reachable. Callers are expected to fall back to their lexical strategies
// instead of failing.
var ErrUnavailable = errors.New("embedding provider unavailable")

// Embedder turns text into a fixed-length vector. Implementations must be
// deterministic for identical input and safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Cosine computes the cosine similarity between two vectors. Mismatched or
// zero-length vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
