package backend

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

func (c *Client) Pay(ctx context.Context, req domain.PaymentRequest) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := c.do(ctx, "payments.pay", func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(req).Post("/payments/pay/")
	}, &tx)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	var order domain.Order
	err := c.do(ctx, "payments.create_order", func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(req).Post("/payments/orders/")
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := c.do(ctx, "payments.list_orders", func(r *resty.Request) (*resty.Response, error) {
		return r.Get("/payments/orders/")
	}, &orders)
	if err != nil {
		return nil, err
	}
	return orders, nil
}
