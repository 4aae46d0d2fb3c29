package checkout

import (
	"errors"

	"github.com/fjod/go_cart/storefront/internal/serviceerr"
)

var (
	ErrEmptyCart            = serviceerr.New(serviceerr.KindValidation, "checkout", "cart is empty, nothing to checkout")
	ErrInvalidPaymentMethod = serviceerr.New(serviceerr.KindValidation, "checkout", "payment method must be card or cash")
	IllegalTransitionError  = errors.New("illegal transition of checkout status")

	// ErrOrderMissingAfterPayment is wrapped into the error returned when
	// the payment succeeded but the order could not be created.
	ErrOrderMissingAfterPayment = errors.New("payment taken but order was not created")
)
