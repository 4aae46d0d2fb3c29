package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	d "github.com/fjod/go_cart/storefront/internal/domain"
)

type Cart interface {
	Lines() []d.CartLine
	Total() decimal.Decimal
	AddItem(ctx context.Context, item d.Item) []d.CartLine
	UpdateQuantity(ctx context.Context, itemID int64, delta int) []d.CartLine
	Clear(ctx context.Context)
}

type DishSource interface {
	GetDish(ctx context.Context, id int64) (*d.Dish, error)
}

type CartHandler struct {
	cart    Cart
	dishes  DishSource
	timeout time.Duration
}

func NewCartHandler(cart Cart, dishes DishSource, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:    cart,
		dishes:  dishes,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	DishID int64 `json:"dish_id"`
}

type UpdateQuantityRequestDTO struct {
	Delta int `json:"delta"`
}

type CartResponse struct {
	Items []d.CartLine    `json:"items"`
	Total decimal.Decimal `json:"total"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(r.Context(), w, http.StatusOK, h.response(h.cart.Lines()))
}

// AddItem looks the dish up on the backend so the cart stores its current
// name and price, then adds one of it.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.DishID <= 0 {
		respondError(ctx, w, http.StatusBadRequest, "invalid_dish_id", "dish_id must be positive")
		return
	}

	dish, err := h.dishes.GetDish(ctx, req.DishID)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	lines := h.cart.AddItem(ctx, dish.Item())
	respondJSON(ctx, w, http.StatusCreated, h.response(lines))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dishID, ok := dishIDParam(ctx, w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	lines := h.cart.UpdateQuantity(ctx, dishID, req.Delta)
	respondJSON(ctx, w, http.StatusOK, h.response(lines))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) response(lines []d.CartLine) CartResponse {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return CartResponse{Items: lines, Total: total}
}
