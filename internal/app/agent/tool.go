package agent

import (
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/casalinda/pedidos/internal/interfaces"
)

const createOrderToolName = "create_order"

// createOrderTool is the single tool exposed to the model. Its schema
// mirrors the order creation command; the model fills it from the
// conversation once the customer confirmed everything.
func createOrderTool() anthropic.ToolUnionParam {
	return anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        createOrderToolName,
			Description: anthropic.String("Crea un pedido confirmado por el cliente. Llamar solo cuando el cliente haya confirmado productos, cantidades, nombre, dirección y método de pago."),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: map[string]interface{}{
					"customer_name": map[string]interface{}{
						"type":        "string",
						"description": "Nombre del cliente",
					},
					"customer_address": map[string]interface{}{
						"type":        "string",
						"description": "Dirección de entrega",
					},
					"payment_method": map[string]interface{}{
						"type":        "string",
						"description": "Método de pago elegido por el cliente",
						"enum":        []string{"efectivo", "tarjeta", "transferencia"},
					},
					"items": map[string]interface{}{
						"type":        "array",
						"description": "Productos del pedido con cantidades y precio unitario de la lista de productos",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"product_id": map[string]interface{}{
									"type":        "integer",
									"description": "Id del producto según la lista de productos",
								},
								"quantity": map[string]interface{}{
									"type":        "integer",
									"description": "Cantidad pedida",
								},
								"price_per_unit": map[string]interface{}{
									"type":        "integer",
									"description": "Precio unitario exacto de la lista de productos",
								},
							},
							"required": []string{"product_id", "quantity", "price_per_unit"},
						},
					},
					"total_amount": map[string]interface{}{
						"type":        "integer",
						"description": "Monto total del pedido, la suma de cantidad por precio unitario de todos los productos",
					},
				},
				Required: []string{"customer_name", "customer_address", "payment_method", "items", "total_amount"},
			},
		},
	}
}

// parseCreateOrderInput decodes the model-provided tool input. The
// customer phone comes from the session, never from the model.
func parseCreateOrderInput(raw json.RawMessage, customerPhone string) (interfaces.CreateOrderCommand, error) {
	var cmd interfaces.CreateOrderCommand
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return cmd, fmt.Errorf("invalid tool input: %w", err)
	}
	cmd.CustomerPhone = customerPhone
	return cmd, nil
}
