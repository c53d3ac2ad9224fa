package product

import (
	"context"
	"fmt"

	"github.com/casalinda/pedidos/internal/adapter/logger"
	"github.com/casalinda/pedidos/internal/domain"
	"github.com/casalinda/pedidos/internal/interfaces"
)

type Service struct {
	repo     interfaces.ProductRepository
	embedder interfaces.Embedder
	logger   logger.Logger
}

func NewService(repo interfaces.ProductRepository, embedder interfaces.Embedder, lgr logger.Logger) *Service {
	return &Service{
		repo:     repo,
		embedder: embedder,
		logger:   lgr,
	}
}

// CreateProduct validates the command, embeds name+description and
// persists the product with its vector.
func (s *Service) CreateProduct(ctx context.Context, cmd interfaces.CreateProductCommand) (*domain.ProductDetails, error) {
	product := &domain.Product{
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
		Available:   cmd.Available,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	embedding, err := s.embedder.EmbedText(ctx, product.EmbeddingText())
	if err != nil {
		s.logger.Error("embedding_failed", "Failed to embed product", "", map[string]interface{}{
			"product_name": product.Name,
		}, err)
		return nil, err
	}
	product.Embedding = embedding

	details, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	s.logger.Info("product_created", "Product created", "", map[string]interface{}{
		"product_id": details.ID,
		"name":       details.Name,
	})

	return details, nil
}

func (s *Service) GetProductByID(ctx context.Context, productID int) (*domain.ProductDetails, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("%w: product id must be positive", domain.ErrValidation)
	}
	return s.repo.GetByID(ctx, productID)
}

func (s *Service) GetAllProducts(ctx context.Context, onlyAvailable bool) ([]domain.ProductDetails, error) {
	return s.repo.ListAll(ctx, onlyAvailable)
}

func (s *Service) SearchByName(ctx context.Context, nameQuery string) ([]domain.ProductDetails, error) {
	if nameQuery == "" {
		return nil, fmt.Errorf("%w: name query must not be empty", domain.ErrValidation)
	}
	return s.repo.SearchByName(ctx, nameQuery)
}

func (s *Service) UpdateAvailability(ctx context.Context, productID int, available bool) (*domain.ProductDetails, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("%w: product id must be positive", domain.ErrValidation)
	}

	details, err := s.repo.UpdateAvailability(ctx, productID, available)
	if err != nil {
		return nil, err
	}

	s.logger.Info("availability_updated", "Product availability updated", "", map[string]interface{}{
		"product_id": productID,
		"available":  available,
	})

	return details, nil
}

// UpdateProduct replaces name, description, price and availability.
// The embedding is recomputed because name/description changed.
func (s *Service) UpdateProduct(ctx context.Context, productID int, cmd interfaces.CreateProductCommand) (*domain.ProductDetails, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("%w: product id must be positive", domain.ErrValidation)
	}

	product := &domain.Product{
		ID:          productID,
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
		Available:   cmd.Available,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	embedding, err := s.embedder.EmbedText(ctx, product.EmbeddingText())
	if err != nil {
		return nil, err
	}
	product.Embedding = embedding

	return s.repo.Update(ctx, product)
}

func (s *Service) SemanticSearch(ctx context.Context, queryEmbedding []float32, topK int, onlyAvailable bool) ([]domain.ProductSearchResult, error) {
	if len(queryEmbedding) != domain.EmbeddingDim {
		return nil, fmt.Errorf("%w: query embedding must have dimension %d", domain.ErrValidation, domain.EmbeddingDim)
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive", domain.ErrValidation)
	}

	return s.repo.SemanticSearch(ctx, queryEmbedding, topK, onlyAvailable)
}

var _ interfaces.ProductService = (*Service)(nil)
