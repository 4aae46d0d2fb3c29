package checkout

import (
	"context"

	d "github.com/fjod/go_cart/storefront/internal/domain"
)

func (s *Service) processPayment(
	ctx context.Context,
	res *Result,
	userID int64,
	method d.PaymentMethod,
	snapshot cartSnapshot,
) (*d.Transaction, error) {
	if err := s.transition(res, d.CheckoutStatusPaymentPending); err != nil {
		return nil, err
	}

	tx, err := s.payments.Pay(ctx, d.PaymentRequest{
		UserID:        userID,
		Amount:        amountNumber(snapshot.Total),
		PaymentMethod: method,
	})
	if err != nil {
		res.Status = d.CheckoutStatusFailed
		return nil, err
	}

	res.TransactionID = tx.ID
	if err := s.transition(res, d.CheckoutStatusPaymentCompleted); err != nil {
		return nil, err
	}
	return tx, nil
}
