package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/casalinda/pedidos/internal/adapter/logger"
	"github.com/casalinda/pedidos/internal/domain"
	"github.com/casalinda/pedidos/internal/interfaces"
)

const menuDateLayout = "2006-01-02"

type MenuHandler struct {
	service interfaces.DailyMenuService
	logger  logger.Logger
}

func NewMenuHandler(service interfaces.DailyMenuService, lgr logger.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  lgr,
	}
}

type AddMenuItemRequest struct {
	ProductID int    `json:"product_id"`
	Stock     int    `json:"stock"`
	MenuDate  string `json:"menu_date"`
}

// queryDate parses the menu_date query parameter, defaulting to today.
func queryDate(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("menu_date")
	if raw == "" {
		return time.Now(), nil
	}
	date, err := time.Parse(menuDateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: menu_date must be YYYY-MM-DD", domain.ErrValidation)
	}
	return date, nil
}

func (h *MenuHandler) GetAvailable(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	items, err := h.service.GetAvailableMenu(r.Context(), date)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *MenuHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	date, err := time.Parse(menuDateLayout, req.MenuDate)
	if err != nil {
		writeError(w, fmt.Errorf("%w: menu_date must be YYYY-MM-DD", domain.ErrValidation))
		return
	}

	item, err := h.service.AddMenuItem(r.Context(), req.ProductID, req.Stock, date)
	if err != nil {
		h.logger.Error("menu_item_add_failed", "Failed to add menu item", RequestID(r.Context()), nil, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

func (h *MenuHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	productID, err := pathInt(r, "productID")
	if err != nil {
		writeError(w, err)
		return
	}

	date, err := queryDate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	newStock, err := strconv.Atoi(r.URL.Query().Get("new_stock"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: new_stock must be an integer", domain.ErrValidation))
		return
	}

	item, err := h.service.UpdateStock(r.Context(), productID, date, newStock)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *MenuHandler) DecreaseStock(w http.ResponseWriter, r *http.Request) {
	productID, err := pathInt(r, "productID")
	if err != nil {
		writeError(w, err)
		return
	}

	date, err := queryDate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: quantity must be an integer", domain.ErrValidation))
		return
	}

	item, err := h.service.DecreaseStock(r.Context(), productID, date, quantity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// DeleteByDate clears every menu entry for a date.
func (h *MenuHandler) DeleteByDate(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.DeleteByDate(r.Context(), date); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	menuID, err := pathInt(r, "menuID")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.DeleteMenuItem(r.Context(), menuID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
