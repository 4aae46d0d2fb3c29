package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Menu     *MenuHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Session  *SessionHandler
	Admin    *AdminHandler
}

type RouterOptions struct {
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

func NewRouter(h Handlers, opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger)
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}
	if opts.MaxBodyBytes > 0 {
		r.Use(middleware.RequestSize(opts.MaxBodyBytes))
	}
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/menu", func(r chi.Router) {
			r.Get("/", h.Menu.ListDishes)
			r.Get("/{dish_id}", h.Menu.GetDish)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Delete("/", h.Cart.ClearCart)
			r.Post("/items", h.Cart.AddItem)
			r.Patch("/items/{dish_id}", h.Cart.UpdateQuantity)
		})
		r.Post("/checkout", h.Checkout.Checkout)
		r.Get("/orders", h.Orders.ListOrders)
		r.Route("/session", func(r chi.Router) {
			r.Post("/login", h.Session.Login)
			r.Post("/logout", h.Session.Logout)
			r.Get("/role", h.Session.Role)
			r.Post("/register", h.Session.Register)
		})
		r.Route("/admin/dishes", func(r chi.Router) {
			r.Get("/", h.Admin.ListDishes)
			r.Post("/", h.Admin.CreateDish)
			r.Delete("/{dish_id}", h.Admin.DeleteDish)
		})
	})

	return r
}
