package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casalinda/pedidos/internal/adapter/logger"
	"github.com/casalinda/pedidos/internal/domain"
	"github.com/casalinda/pedidos/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, lgr logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  lgr,
	}
}

type UpdateOrderItemsRequest struct {
	OrderCode string                              `json:"order_code"`
	Items     []interfaces.CreateOrderItemCommand `json:"items"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd interfaces.CreateOrderCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	detail, err := h.service.CreateOrder(r.Context(), cmd)
	if err != nil {
		h.logger.Error("order_creation_failed", "Failed to create order", RequestID(r.Context()), nil, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, detail)
}

func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	detail, err := h.service.GetOrderByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func (h *OrderHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetOrderByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func (h *OrderHandler) GetDetailByCode(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetOrderDetailByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	newStatus := domain.Status(r.URL.Query().Get("new_status"))

	detail, err := h.service.UpdateOrderStatus(r.Context(), code, newStatus)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func (h *OrderHandler) UpdateItems(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	detail, err := h.service.UpdateOrderItems(r.Context(), req.OrderCode, req.Items)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func (h *OrderHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrdersByCustomer(r.Context(), chi.URLParam(r, "phone"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteOrder(r.Context(), chi.URLParam(r, "code")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
