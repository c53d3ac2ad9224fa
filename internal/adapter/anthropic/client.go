package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/casalinda/pedidos/internal/config"
	"github.com/casalinda/pedidos/internal/domain"
)

// Client wraps the Anthropic messages API behind the small surface
// the agent service depends on, so tests can substitute a fake.
type Client struct {
	client anthropic.Client
	cfg    config.AgentConfig
}

func NewClient(cfg config.AgentConfig) *Client {
	return &Client{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		cfg:    cfg,
	}
}

// CreateMessage runs one model exchange under the configured timeout.
// Provider failures surface as ErrExternalService.
func (c *Client) CreateMessage(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: llm request: %v", domain.ErrExternalService, err)
	}

	return resp, nil
}
