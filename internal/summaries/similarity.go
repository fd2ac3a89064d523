package summaries

import (
	"fmt"
	"math"
)

// CosineSimilarity returns dot(a,b) / (|a| * |b|), accumulating in float64.
// Mismatched dimensions or a zero vector have no defined angle and are
// rejected as ErrInvalidRequest.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("%w: empty embedding vector", ErrInvalidRequest)
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: embedding dimensions differ (%d vs %d)", ErrInvalidRequest, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("%w: zero embedding vector", ErrInvalidRequest)
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
