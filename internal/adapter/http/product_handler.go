package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/casalinda/pedidos/internal/adapter/logger"
	"github.com/casalinda/pedidos/internal/domain"
	"github.com/casalinda/pedidos/internal/interfaces"
)

type ProductHandler struct {
	service interfaces.ProductService
	logger  logger.Logger
}

func NewProductHandler(service interfaces.ProductService, lgr logger.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  lgr,
	}
}

type ProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Available   bool   `json:"available"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	details, err := h.service.CreateProduct(r.Context(), interfaces.CreateProductCommand{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Available:   req.Available,
	})
	if err != nil {
		h.logger.Error("product_creation_failed", "Failed to create product", RequestID(r.Context()), nil, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, details)
}

func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	details, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	onlyAvailable := r.URL.Query().Get("only_available") == "true"

	products, err := h.service.GetAllProducts(r.Context(), onlyAvailable)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) SearchByName(w http.ResponseWriter, r *http.Request) {
	nameQuery := r.URL.Query().Get("name_query")

	products, err := h.service.SearchByName(r.Context(), nameQuery)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	available, err := strconv.ParseBool(r.URL.Query().Get("available"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: available must be true or false", domain.ErrValidation))
		return
	}

	details, err := h.service.UpdateAvailability(r.Context(), id, available)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	details, err := h.service.UpdateProduct(r.Context(), id, interfaces.CreateProductCommand{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Available:   req.Available,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}

// pathInt reads a positive integer chi URL parameter.
func pathInt(r *http.Request, name string) (int, error) {
	value, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrValidation, name)
	}
	return value, nil
}
