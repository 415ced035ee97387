package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	r.Use(middleware.CorrelationID)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.GetState)
		r.Post("/actions", h.Dispatch)

		r.Get("/items", h.GetItems)
		r.Post("/items/fetch", h.FetchItems)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddToCart)
			r.Post("/items/{name}/increment", h.Increment)
			r.Post("/items/{name}/decrement", h.Decrement)
			r.Delete("/items/{id}", h.RemoveFromCart)
		})

		r.Get("/purchases", h.GetPurchases)
		r.Post("/purchases", h.AddPurchase)
	})

	return r
}
