package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	slogctx "github.com/veqryn/slog-context"

	d "github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/incident"
	"github.com/fjod/go_cart/storefront/internal/session"
)

type Session interface {
	IsAuthenticated(ctx context.Context) bool
	Profile(ctx context.Context) (*d.User, error)
}

type Cart interface {
	Lines() []d.CartLine
	Clear(ctx context.Context)
}

type PaymentAPI interface {
	Pay(ctx context.Context, req d.PaymentRequest) (*d.Transaction, error)
	CreateOrder(ctx context.Context, req d.OrderRequest) (*d.Order, error)
}

type IncidentRecorder interface {
	Record(ctx context.Context, inc incident.Incident) (incident.Incident, error)
}

// Result describes how far a checkout got. TransactionID is set once the
// payment succeeded, Order once the order was created.
type Result struct {
	Status        d.CheckoutStatus `json:"status"`
	TransactionID int64            `json:"transaction_id,omitempty"`
	Total         decimal.Decimal  `json:"total"`
	Order         *d.Order         `json:"order,omitempty"`
	IncidentID    string           `json:"incident_id,omitempty"`
}

type Service struct {
	session   Session
	cart      Cart
	payments  PaymentAPI
	incidents IncidentRecorder
}

func NewService(sess Session, cart Cart, payments PaymentAPI, incidents IncidentRecorder) *Service {
	return &Service{
		session:   sess,
		cart:      cart,
		payments:  payments,
		incidents: incidents,
	}
}

// Checkout pays for the cart and then records the order. The cart is
// cleared only after both steps succeed. If the payment fails no order is
// attempted. If the order fails after payment, the result has status
// PAYMENT_TAKEN_ORDER_MISSING and the transaction id, and an incident is
// journaled; the payment is not reversed.
func (s *Service) Checkout(ctx context.Context, method d.PaymentMethod) (*Result, error) {
	res := &Result{Status: d.CheckoutStatusInitiated}

	if !s.session.IsAuthenticated(ctx) {
		res.Status = d.CheckoutStatusFailed
		return res, session.ErrNoToken
	}
	if !method.Valid() {
		res.Status = d.CheckoutStatusFailed
		return res, ErrInvalidPaymentMethod
	}

	lines := s.cart.Lines()
	if len(lines) == 0 {
		res.Status = d.CheckoutStatusFailed
		return res, ErrEmptyCart
	}
	snapshot := newSnapshot(lines)
	res.Total = snapshot.Total

	ctx = slogctx.Append(ctx, "payment_method", string(method), "total", snapshot.Total.String())

	user, err := s.session.Profile(ctx)
	if err != nil {
		res.Status = d.CheckoutStatusFailed
		return res, fmt.Errorf("load profile: %w", err)
	}

	tx, err := s.processPayment(ctx, res, user.ID, method, snapshot)
	if err != nil {
		slogctx.Warn(ctx, "checkout payment failed", "error", err)
		return res, err
	}
	ctx = slogctx.Append(ctx, "transaction_id", tx.ID)

	order, err := s.complete(ctx, res, user.ID, tx.ID, method, snapshot)
	if err != nil {
		return res, err
	}
	res.Order = order

	s.cart.Clear(ctx)
	slogctx.Info(ctx, "checkout completed", "order_id", order.ID)
	return res, nil
}

// cartSnapshot freezes the cart at the moment of checkout so that both
// backend calls see the same lines.
type cartSnapshot struct {
	Items []d.OrderItem
	Total decimal.Decimal
}

func newSnapshot(lines []d.CartLine) cartSnapshot {
	snap := cartSnapshot{
		Items: make([]d.OrderItem, 0, len(lines)),
		Total: decimal.Zero,
	}
	for _, l := range lines {
		snap.Items = append(snap.Items, d.OrderItem{DishID: l.ItemID, Amount: l.Quantity})
		snap.Total = snap.Total.Add(l.Subtotal())
	}
	return snap
}

func (s *Service) transition(res *Result, to d.CheckoutStatus) error {
	if !d.CanTransitionTo(res.Status, to) {
		return IllegalTransitionError
	}
	res.Status = to
	return nil
}

// amountNumber sends the exact cart total; no rounding is applied.
func amountNumber(total decimal.Decimal) json.Number {
	return json.Number(total.String())
}

// IsOrderMissing reports whether err came from a checkout that charged the
// user without creating the order.
func IsOrderMissing(err error) bool {
	return errors.Is(err, ErrOrderMissingAfterPayment)
}
