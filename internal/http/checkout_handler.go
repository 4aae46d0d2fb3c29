package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/checkout"
	d "github.com/fjod/go_cart/storefront/internal/domain"
)

type Checkout interface {
	Checkout(ctx context.Context, method d.PaymentMethod) (*checkout.Result, error)
}

type CheckoutHandler struct {
	checkout Checkout
}

func NewCheckoutHandler(c Checkout) *CheckoutHandler {
	return &CheckoutHandler{checkout: c}
}

type CheckoutRequestDTO struct {
	PaymentMethod d.PaymentMethod `json:"payment_method"`
}

// CheckoutResponse always carries the outcome, including on failure, so a
// PAYMENT_TAKEN_ORDER_MISSING result still shows the transaction id.
type CheckoutResponse struct {
	*checkout.Result
	Error *ErrorResponse `json:"error,omitempty"`
}

// Checkout has no handler timeout; each backend call is bounded by the
// client.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	res, err := h.checkout.Checkout(ctx, req.PaymentMethod)
	if err != nil {
		status, errResp := errorResponse(err)
		respondJSON(ctx, w, status, CheckoutResponse{Result: res, Error: &errResp})
		return
	}

	respondJSON(ctx, w, http.StatusCreated, CheckoutResponse{Result: res})
}
