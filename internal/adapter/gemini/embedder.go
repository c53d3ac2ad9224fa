package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/casalinda/pedidos/internal/config"
	"github.com/casalinda/pedidos/internal/domain"
	"github.com/casalinda/pedidos/internal/interfaces"
)

// Embedder wraps the Gemini embedding model. Every call re-embeds;
// there is no cache and no retry at this layer.
type Embedder struct {
	client  *genai.Client
	model   string
	timeout config.EmbeddingConfig
}

func NewEmbedder(ctx context.Context, cfg config.EmbeddingConfig) (*Embedder, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}

	return &Embedder{
		client:  client,
		model:   cfg.Model,
		timeout: cfg,
	}, nil
}

func (e *Embedder) Close() error {
	return e.client.Close()
}

// EmbedText returns the embedding vector for text, dimension
// domain.EmbeddingDim. Provider failures and timeouts surface as
// ErrExternalService.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout.Timeout())
	defer cancel()

	em := e.client.EmbeddingModel(e.model)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("%w: embedding request: %v", domain.ErrExternalService, err)
	}

	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", domain.ErrExternalService)
	}
	if len(res.Embedding.Values) != domain.EmbeddingDim {
		return nil, fmt.Errorf("%w: embedding has dimension %d, want %d",
			domain.ErrExternalService, len(res.Embedding.Values), domain.EmbeddingDim)
	}

	return res.Embedding.Values, nil
}

var _ interfaces.Embedder = (*Embedder)(nil)
