package domain

import (
	"fmt"
	"time"
)

// Product represents a product offered for sale. Price is an integer
// amount in the smallest currency unit (Chilean pesos).
type Product struct {
	ID          int
	Name        string
	Description string
	Price       int
	Available   bool
	Embedding   []float32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductDetails is the product projection returned to callers. It
// never carries the embedding vector.
type ProductDetails struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Available   bool   `json:"available"`
}

// ProductSearchResult is a product projection plus its similarity
// score against a query vector. Ephemeral, never persisted.
type ProductSearchResult struct {
	ProductID       int     `json:"product_id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           int     `json:"price"`
	Available       bool    `json:"available"`
	SimilarityScore float64 `json:"similarity_score"`
}

// EmbeddingText is the canonical text a product is embedded from.
// Name and description together; recomputed whenever either changes.
func (p *Product) EmbeddingText() string {
	return fmt.Sprintf("Nombre del producto: %s\nDescripción del producto: %s", p.Name, p.Description)
}

// Validate applies creation/update rules for a product.
func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if p.Description == "" {
		return fmt.Errorf("%w: product description is required", ErrValidation)
	}
	if p.Price <= 0 {
		return fmt.Errorf("%w: product price must be positive", ErrValidation)
	}
	return nil
}
