package product

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casalinda/pedidos/internal/adapter/logger"
	"github.com/casalinda/pedidos/internal/domain"
	"github.com/casalinda/pedidos/internal/interfaces"
)

type fakeProductRepo struct {
	products map[int]*domain.Product
	nextID   int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[int]*domain.Product)}
}

func details(p *domain.Product) *domain.ProductDetails {
	return &domain.ProductDetails{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Available:   p.Available,
	}
}

func (r *fakeProductRepo) Create(_ context.Context, product *domain.Product) (*domain.ProductDetails, error) {
	r.nextID++
	product.ID = r.nextID
	stored := *product
	r.products[product.ID] = &stored
	return details(&stored), nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, productID int) (*domain.ProductDetails, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, productID)
	}
	return details(p), nil
}

func (r *fakeProductRepo) ListAll(_ context.Context, onlyAvailable bool) ([]domain.ProductDetails, error) {
	var out []domain.ProductDetails
	for _, p := range r.products {
		if onlyAvailable && !p.Available {
			continue
		}
		out = append(out, *details(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProductRepo) SearchByName(_ context.Context, _ string) ([]domain.ProductDetails, error) {
	panic("not used")
}

func (r *fakeProductRepo) UpdateAvailability(_ context.Context, productID int, available bool) (*domain.ProductDetails, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, productID)
	}
	p.Available = available
	return details(p), nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *domain.Product) (*domain.ProductDetails, error) {
	if _, ok := r.products[product.ID]; !ok {
		return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, product.ID)
	}
	stored := *product
	r.products[product.ID] = &stored
	return details(&stored), nil
}

func (r *fakeProductRepo) SemanticSearch(_ context.Context, query []float32, topK int, onlyAvailable bool) ([]domain.ProductSearchResult, error) {
	var out []domain.ProductSearchResult
	for _, p := range r.products {
		if onlyAvailable && !p.Available {
			continue
		}
		out = append(out, domain.ProductSearchResult{
			ProductID:       p.ID,
			Name:            p.Name,
			Description:     p.Description,
			Price:           p.Price,
			Available:       p.Available,
			SimilarityScore: domain.CosineSimilarity(query, p.Embedding),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SimilarityScore > out[j].SimilarityScore })
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

type fakeEmbedder struct {
	calls int
	fail  bool
}

func (f *fakeEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.fail {
		return nil, fmt.Errorf("%w: embedding request", domain.ErrExternalService)
	}
	vec := make([]float32, domain.EmbeddingDim)
	for i, r := range text {
		vec[i%domain.EmbeddingDim] += float32(r)
	}
	return vec, nil
}

func TestCreateProductEmbeds(t *testing.T) {
	repo := newFakeProductRepo()
	embedder := &fakeEmbedder{}
	svc := NewService(repo, embedder, logger.New("test"))

	created, err := svc.CreateProduct(context.Background(), interfaces.CreateProductCommand{
		Name:        "Cazuela",
		Description: "Cazuela de vacuno con papas",
		Price:       6500,
		Available:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.calls)
	assert.Len(t, repo.products[created.ID].Embedding, domain.EmbeddingDim)
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewService(newFakeProductRepo(), &fakeEmbedder{}, logger.New("test"))

	_, err := svc.CreateProduct(context.Background(), interfaces.CreateProductCommand{Name: "", Description: "x", Price: 100})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateProduct(context.Background(), interfaces.CreateProductCommand{Name: "x", Description: "y", Price: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateProductEmbeddingFailure(t *testing.T) {
	svc := NewService(newFakeProductRepo(), &fakeEmbedder{fail: true}, logger.New("test"))

	_, err := svc.CreateProduct(context.Background(), interfaces.CreateProductCommand{
		Name: "Cazuela", Description: "Cazuela de vacuno", Price: 6500,
	})
	assert.ErrorIs(t, err, domain.ErrExternalService)
}

func TestUpdateProductReembeds(t *testing.T) {
	repo := newFakeProductRepo()
	embedder := &fakeEmbedder{}
	svc := NewService(repo, embedder, logger.New("test"))

	created, err := svc.CreateProduct(context.Background(), interfaces.CreateProductCommand{
		Name: "Cazuela", Description: "Cazuela de vacuno", Price: 6500, Available: true,
	})
	require.NoError(t, err)

	_, err = svc.UpdateProduct(context.Background(), created.ID, interfaces.CreateProductCommand{
		Name: "Cazuela grande", Description: "Cazuela de vacuno tamaño familiar", Price: 8500, Available: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, embedder.calls)
}

func TestSemanticSearchFilters(t *testing.T) {
	repo := newFakeProductRepo()
	embedder := &fakeEmbedder{}
	svc := NewService(repo, embedder, logger.New("test"))

	_, err := svc.CreateProduct(context.Background(), interfaces.CreateProductCommand{
		Name: "Cazuela", Description: "Cazuela de vacuno", Price: 6500, Available: true,
	})
	require.NoError(t, err)
	hidden, err := svc.CreateProduct(context.Background(), interfaces.CreateProductCommand{
		Name: "Churrasco", Description: "Churrasco italiano", Price: 5500, Available: false,
	})
	require.NoError(t, err)

	query, err := embedder.EmbedText(context.Background(), "algo de vacuno")
	require.NoError(t, err)

	results, err := svc.SemanticSearch(context.Background(), query, 5, true)
	require.NoError(t, err)
	for _, r := range results {
		assert.NotEqual(t, hidden.ID, r.ProductID)
		assert.True(t, r.Available)
	}

	_, err = svc.SemanticSearch(context.Background(), []float32{1, 2, 3}, 5, true)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.SemanticSearch(context.Background(), query, 0, true)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListAllOnlyAvailable(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewService(repo, &fakeEmbedder{}, logger.New("test"))

	_, err := svc.CreateProduct(context.Background(), interfaces.CreateProductCommand{
		Name: "Cazuela", Description: "Cazuela de vacuno", Price: 6500, Available: true,
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(context.Background(), interfaces.CreateProductCommand{
		Name: "Churrasco", Description: "Churrasco italiano", Price: 5500, Available: false,
	})
	require.NoError(t, err)

	all, err := svc.GetAllProducts(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	available, err := svc.GetAllProducts(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Cazuela", available[0].Name)
}
