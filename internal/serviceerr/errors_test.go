package serviceerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fjod/go_cart/storefront/internal/serviceerr"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name        string
		err         *serviceerr.Error
		expectedMsg string
	}{
		{
			name:        "kind only",
			err:         &serviceerr.Error{Kind: serviceerr.KindTransport},
			expectedMsg: "transport",
		},
		{
			name:        "with op and message",
			err:         serviceerr.New(serviceerr.KindNotFound, "menu.get", "Dish not found"),
			expectedMsg: "menu.get: not_found: Dish not found",
		},
		{
			name:        "with wrapped error",
			err:         serviceerr.Wrap(serviceerr.KindTransport, "payments.pay", errors.New("connection refused")),
			expectedMsg: "payments.pay: transport: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
		})
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("checkout: %w", serviceerr.New(serviceerr.KindBusiness, "pay", "declined"))

	assert.Equal(t, serviceerr.KindBusiness, serviceerr.KindOf(wrapped))
	assert.True(t, serviceerr.IsKind(wrapped, serviceerr.KindBusiness))
	assert.Equal(t, serviceerr.KindUnknown, serviceerr.KindOf(errors.New("plain")))
	assert.Equal(t, serviceerr.Kind(""), serviceerr.KindOf(nil))
}

func TestKindFromStatus(t *testing.T) {
	tests := []struct {
		status int
		kind   serviceerr.Kind
	}{
		{400, serviceerr.KindBusiness},
		{401, serviceerr.KindUnauthenticated},
		{403, serviceerr.KindForbidden},
		{404, serviceerr.KindNotFound},
		{409, serviceerr.KindBusiness},
		{422, serviceerr.KindValidation},
		{500, serviceerr.KindServer},
		{503, serviceerr.KindServer},
		{302, serviceerr.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.kind, serviceerr.KindFromStatus(tt.status))
		})
	}
}
