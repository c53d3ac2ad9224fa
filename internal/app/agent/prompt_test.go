package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casalinda/pedidos/internal/domain"
)

func TestFriendlyTimestamp(t *testing.T) {
	ts := time.Date(2025, time.September, 1, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "Lunes 1 de Septiembre del 2025 - Hora 14:30", FriendlyTimestamp(ts))

	ts = time.Date(2025, time.December, 25, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "Jueves 25 de Diciembre del 2025 - Hora 09:05", FriendlyTimestamp(ts))
}

func TestBuildSystemPrompt(t *testing.T) {
	products := []domain.ProductDetails{
		{ID: 1, Name: "Cazuela", Description: "Cazuela de vacuno", Price: 6500},
	}
	related := []domain.ProductSearchResult{
		{ProductID: 1, Name: "Cazuela", Description: "Cazuela de vacuno", Price: 6500, SimilarityScore: 0.87},
	}

	prompt, err := buildSystemPrompt("Valentina", "+56911111111", "¿qué lleva la cazuela?", time.Date(2025, time.September, 1, 12, 0, 0, 0, time.UTC), products, related)
	require.NoError(t, err)

	assert.Contains(t, prompt, "Valentina")
	assert.Contains(t, prompt, "Lunes 1 de Septiembre del 2025")
	assert.Contains(t, prompt, "+56911111111")
	assert.Contains(t, prompt, "¿qué lleva la cazuela?")
	assert.Contains(t, prompt, `"name":"Cazuela"`)
	assert.Contains(t, prompt, `"similarity_score":0.87`)
	assert.Contains(t, prompt, "create_order")
}

func TestBuildSystemPromptEmptyCatalog(t *testing.T) {
	prompt, err := buildSystemPrompt("Valentina", "+56911111111", "hola", time.Now(), nil, nil)
	require.NoError(t, err)

	// An empty catalog and no matches render as empty JSON arrays.
	assert.Contains(t, prompt, "Productos disponibles (JSON):\n[]")
	assert.Contains(t, prompt, "Productos más relacionados con el último mensaje del cliente (JSON):\n[]")
}
