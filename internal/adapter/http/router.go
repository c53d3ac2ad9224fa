package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casalinda/pedidos/internal/adapter/logger"
)

// NewRouter mounts all API routes with the shared middleware chain.
func NewRouter(
	products *ProductHandler,
	orders *OrderHandler,
	menu *MenuHandler,
	chat *ChatHandler,
	lgr logger.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(RecoveryMiddleware(lgr))
	r.Use(LoggingMiddleware(lgr))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/products", func(r chi.Router) {
		r.Post("/", products.Create)
		r.Get("/", products.List)
		r.Get("/search/", products.SearchByName)
		r.Get("/{id}", products.GetByID)
		r.Put("/{id}", products.Update)
		r.Patch("/{id}/availability", products.UpdateAvailability)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orders.Create)
		r.Patch("/items/", orders.UpdateItems)
		r.Get("/code/{code}", orders.GetByCode)
		r.Get("/detail/{code}", orders.GetDetailByCode)
		r.Get("/list/{phone}", orders.ListByCustomer)
		r.Get("/{id}", orders.GetByID)
		r.Patch("/{code}/status/", orders.UpdateStatus)
		r.Delete("/{code}/", orders.Delete)
	})

	r.Route("/menu", func(r chi.Router) {
		r.Get("/", menu.GetAvailable)
		r.Post("/", menu.Add)
		r.Delete("/", menu.DeleteByDate)
		r.Patch("/{productID}/stock/", menu.UpdateStock)
		r.Patch("/{productID}/decrease/", menu.DecreaseStock)
		r.Delete("/{menuID}/", menu.Delete)
	})

	r.Route("/chat", func(r chi.Router) {
		r.Post("/", chat.Respond)
		r.Get("/{phone}/history", chat.GetHistory)
		r.Delete("/{phone}", chat.DeleteSession)
	})

	return r
}
