package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"storefront/internal/middleware"
)

type RouterConfig struct {
	Secret     string
	CORSOrigin string
	Limiter    *middleware.Limiter
	Observer   middleware.RequestObserver
	Metrics    http.Handler
}

func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	if cfg.Observer != nil {
		r.Use(middleware.Metrics(cfg.Observer))
	}
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.Auth(cfg.Secret))
	if cfg.Limiter != nil {
		r.Use(cfg.Limiter.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", h.ListCategories)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Get("/featured", h.FeaturedProducts)
			r.Get("/{id}", h.GetProduct)
			r.Post("/{id}/enhance", h.EnhanceDescription)
			r.Post("/{id}/review-draft", h.DraftReview)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Post("/items", h.AddItem)
			r.Put("/items/{productId}", h.UpdateQuantity)
			r.Delete("/items/{productId}", h.RemoveItem)
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", h.CurrentUser)
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
		})

		r.Get("/notifications", h.Notifications)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireSession)

			r.Post("/checkout", h.Checkout)
			r.Get("/orders", h.MyOrders)

			r.Route("/admin", func(r chi.Router) {
				r.Post("/products", h.CreateProduct)
				r.Put("/products/{id}", h.UpdateProduct)
				r.Delete("/products/{id}", h.DeleteProduct)
				r.Get("/orders", h.AllOrders)
				r.Patch("/orders/{id}/status", h.UpdateOrderStatus)
				r.Get("/dashboard", h.Dashboard)
			})
		})
	})

	return r
}
