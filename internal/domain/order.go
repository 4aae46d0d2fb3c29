package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCard || m == PaymentCash
}

type PaymentRequest struct {
	UserID        int64         `json:"user_id"`
	Amount        json.Number   `json:"amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}

type Transaction struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Status        string          `json:"status"`
	CreatedAt     Timestamp       `json:"created_at"`
	ClosedAt      *Timestamp      `json:"closed_at,omitempty"`
}

type OrderItem struct {
	DishID int64 `json:"dish_id"`
	Amount int   `json:"amount"`
}

type OrderRequest struct {
	UserID        int64         `json:"user_id"`
	TransactionID int64         `json:"transaction_id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Items         []OrderItem   `json:"items"`
}

type Order struct {
	ID            int64       `json:"id"`
	TransactionID int64       `json:"transaction_id"`
	UserID        int64       `json:"user_id"`
	Items         []OrderItem `json:"items"`
	Status        string      `json:"status"`
	CreatedAt     Timestamp   `json:"created_at"`
	ClosedAt      *Timestamp  `json:"closed_at,omitempty"`
}

// DetailedOrderItem is an order item joined with the dish it refers to.
type DetailedOrderItem struct {
	DishID   int64           `json:"dish_id"`
	Amount   int             `json:"amount"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url"`
}

type DetailedOrder struct {
	ID            int64               `json:"id"`
	TransactionID int64               `json:"transaction_id"`
	Status        string              `json:"status"`
	CreatedAt     Timestamp           `json:"created_at"`
	Address       string              `json:"delivery_address"`
	Items         []DetailedOrderItem `json:"items"`
}
