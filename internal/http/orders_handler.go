package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/orders"
)

type OrderHistory interface {
	List(ctx context.Context) (*orders.View, error)
}

type OrdersHandler struct {
	history OrderHistory
	timeout time.Duration
}

func NewOrdersHandler(history OrderHistory, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		history: history,
		timeout: timeout,
	}
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	view, err := h.history.List(ctx)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, view)
}
