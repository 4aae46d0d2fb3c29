package domain

import "github.com/shopspring/decimal"

// Item is what a view hands to the cart when the user adds a dish.
type Item struct {
	ID        int64
	Name      string
	UnitPrice decimal.Decimal
	ImageRef  string
}

// CartLine is persisted as-is in the cart snapshot.
type CartLine struct {
	ItemID    int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	ImageRef  string          `json:"image_url"`
	Quantity  int             `json:"quantity"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
