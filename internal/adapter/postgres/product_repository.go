package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/casalinda/pedidos/internal/domain"
	"github.com/casalinda/pedidos/internal/interfaces"
)

type productRepository struct {
	db DB
}

func NewProductRepository(db DB) interfaces.ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, description, price, available`

func (r *productRepository) Create(ctx context.Context, product *domain.Product) (*domain.ProductDetails, error) {
	query := `
		INSERT INTO products (name, description, price, available, embedding, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING ` + productColumns

	var details domain.ProductDetails
	err := r.db.QueryRow(ctx, query,
		product.Name, product.Description, product.Price, product.Available,
		pgvector.NewVector(product.Embedding),
	).Scan(&details.ID, &details.Name, &details.Description, &details.Price, &details.Available)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return &details, nil
}

func (r *productRepository) GetByID(ctx context.Context, productID int) (*domain.ProductDetails, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var details domain.ProductDetails
	err := r.db.QueryRow(ctx, query, productID).Scan(
		&details.ID, &details.Name, &details.Description, &details.Price, &details.Available,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, productID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &details, nil
}

func (r *productRepository) ListAll(ctx context.Context, onlyAvailable bool) ([]domain.ProductDetails, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if onlyAvailable {
		query += ` WHERE available`
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return scanProductDetails(rows)
}

func (r *productRepository) SearchByName(ctx context.Context, nameQuery string) ([]domain.ProductDetails, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE name ILIKE '%' || $1 || '%' AND available
		ORDER BY id`

	rows, err := r.db.Query(ctx, query, nameQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	return scanProductDetails(rows)
}

func (r *productRepository) UpdateAvailability(ctx context.Context, productID int, available bool) (*domain.ProductDetails, error) {
	query := `
		UPDATE products
		SET available = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + productColumns

	var details domain.ProductDetails
	err := r.db.QueryRow(ctx, query, available, time.Now(), productID).Scan(
		&details.ID, &details.Name, &details.Description, &details.Price, &details.Available,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, productID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product availability: %w", err)
	}

	return &details, nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) (*domain.ProductDetails, error) {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, available = $4, embedding = $5, updated_at = $6
		WHERE id = $7
		RETURNING ` + productColumns

	var details domain.ProductDetails
	err := r.db.QueryRow(ctx, query,
		product.Name, product.Description, product.Price, product.Available,
		pgvector.NewVector(product.Embedding), time.Now(), product.ID,
	).Scan(&details.ID, &details.Name, &details.Description, &details.Price, &details.Available)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, product.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &details, nil
}

// SemanticSearch ranks products by cosine similarity against the
// query vector. Score is 1 - cosine distance, so identical vectors
// score 1.0 and callers may see negative scores.
func (r *productRepository) SemanticSearch(ctx context.Context, queryEmbedding []float32, topK int, onlyAvailable bool) ([]domain.ProductSearchResult, error) {
	query := `
		SELECT id, name, description, price, available,
		       1 - (embedding <=> $1) AS similarity_score
		FROM products`
	if onlyAvailable {
		query += ` WHERE available`
	}
	query += ` ORDER BY similarity_score DESC LIMIT $2`

	rows, err := r.db.Query(ctx, query, pgvector.NewVector(queryEmbedding), topK)
	if err != nil {
		return nil, fmt.Errorf("failed to run semantic search: %w", err)
	}
	defer rows.Close()

	var results []domain.ProductSearchResult
	for rows.Next() {
		var res domain.ProductSearchResult
		if err := rows.Scan(&res.ProductID, &res.Name, &res.Description, &res.Price, &res.Available, &res.SimilarityScore); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read search results: %w", err)
	}

	return results, nil
}

func scanProductDetails(rows Rows) ([]domain.ProductDetails, error) {
	var products []domain.ProductDetails
	for rows.Next() {
		var details domain.ProductDetails
		if err := rows.Scan(&details.ID, &details.Name, &details.Description, &details.Price, &details.Available); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, details)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return products, nil
}
