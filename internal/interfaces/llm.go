package interfaces

import "context"

// Embedder turns text into a fixed-length vector
// (domain.EmbeddingDim). Calls are never cached or retried here.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}
