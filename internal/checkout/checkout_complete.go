package checkout

import (
	"context"
	"fmt"

	slogctx "github.com/veqryn/slog-context"

	d "github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/incident"
)

func (s *Service) complete(
	ctx context.Context,
	res *Result,
	userID, transactionID int64,
	method d.PaymentMethod,
	snapshot cartSnapshot,
) (*d.Order, error) {
	order, err := s.payments.CreateOrder(ctx, d.OrderRequest{
		UserID:        userID,
		TransactionID: transactionID,
		PaymentMethod: method,
		Items:         snapshot.Items,
	})
	if err == nil {
		if terr := s.transition(res, d.CheckoutStatusCompleted); terr != nil {
			return nil, terr
		}
		return order, nil
	}

	if terr := s.transition(res, d.CheckoutStatusOrderMissing); terr != nil {
		return nil, terr
	}
	slogctx.Error(ctx, "payment taken but order creation failed", "error", err)

	if s.incidents != nil {
		inc, rerr := s.incidents.Record(ctx, incident.Incident{
			TransactionID: transactionID,
			UserID:        userID,
			Amount:        snapshot.Total,
			PaymentMethod: method,
			Items:         snapshot.Items,
			Reason:        err.Error(),
		})
		if rerr != nil {
			slogctx.Error(ctx, "incident journal write failed", "error", rerr)
		} else {
			res.IncidentID = inc.ID
		}
	}

	return nil, fmt.Errorf("%w (transaction %d): %w", ErrOrderMissingAfterPayment, transactionID, err)
}
