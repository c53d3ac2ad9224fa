package domain

import "math"

// EmbeddingDim is the fixed dimension of product and query embeddings.
const EmbeddingDim = 768

// CosineSimilarity computes the cosine similarity of two vectors of
// equal length. Ranges in [-1, 1]; zero when either vector has zero
// magnitude or lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
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
