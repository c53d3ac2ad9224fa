package agent

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/casalinda/pedidos/internal/domain"
)

var spanishDays = [...]string{
	"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado",
}

var spanishMonths = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// FriendlyTimestamp renders t in the conversational Spanish form used
// inside the system prompt, e.g. "Lunes 1 de Septiembre del 2025 - Hora 14:30".
func FriendlyTimestamp(t time.Time) string {
	return fmt.Sprintf("%s %d de %s del %d - Hora %02d:%02d",
		spanishDays[t.Weekday()],
		t.Day(),
		spanishMonths[int(t.Month())-1],
		t.Year(),
		t.Hour(),
		t.Minute(),
	)
}

var promptTemplate = template.Must(template.New("system").Parse(`Eres {{.AgentName}}, la asistente virtual de atención al cliente de Casa Linda, un restaurante de comida casera.

Fecha y hora actual: {{.Now}}
Teléfono del cliente: {{.CustomerPhone}}

Último mensaje del cliente:
{{.CustomerMessage}}

Tu trabajo:
- Responder preguntas sobre el menú y los productos disponibles.
- Ayudar al cliente a armar y confirmar su pedido.
- Ser cálida, cercana y breve. Responde siempre en español.

Reglas para pedidos:
- Usa la herramienta create_order solamente cuando el cliente haya confirmado los productos, las cantidades, su nombre, su dirección y el método de pago.
- Los métodos de pago aceptados son: efectivo, tarjeta, transferencia.
- Usa los precios exactos de la lista de productos. Nunca inventes productos ni precios.
- Si falta algún dato, pídelo antes de crear el pedido.
- Después de crear un pedido, comparte el código del pedido con el cliente.

Productos disponibles (JSON):
{{.Products}}

Productos más relacionados con el último mensaje del cliente (JSON):
{{.Related}}`))

type promptData struct {
	AgentName       string
	Now             string
	CustomerPhone   string
	CustomerMessage string
	Products        string
	Related         string
}

// buildSystemPrompt renders the agent system prompt with the incoming
// customer message, the JSON-serialized product catalog, and the
// JSON-serialized semantic matches for that message.
func buildSystemPrompt(agentName, customerPhone, customerMessage string, now time.Time, products []domain.ProductDetails, related []domain.ProductSearchResult) (string, error) {
	if products == nil {
		products = []domain.ProductDetails{}
	}
	if related == nil {
		related = []domain.ProductSearchResult{}
	}

	catalogJSON, err := json.Marshal(products)
	if err != nil {
		return "", fmt.Errorf("failed to serialize product catalog: %w", err)
	}
	relatedJSON, err := json.Marshal(related)
	if err != nil {
		return "", fmt.Errorf("failed to serialize semantic matches: %w", err)
	}

	data := promptData{
		AgentName:       agentName,
		Now:             FriendlyTimestamp(now),
		CustomerPhone:   customerPhone,
		CustomerMessage: customerMessage,
		Products:        string(catalogJSON),
		Related:         string(relatedJSON),
	}

	var out strings.Builder
	if err := promptTemplate.Execute(&out, data); err != nil {
		return "", fmt.Errorf("failed to render system prompt: %w", err)
	}
	return out.String(), nil
}
