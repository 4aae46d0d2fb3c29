package domain

import "github.com/shopspring/decimal"

type Dish struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
}

// Item converts a dish into the descriptor the cart stores.
func (d Dish) Item() Item {
	return Item{
		ID:        d.ID,
		Name:      d.Name,
		UnitPrice: d.Price,
		ImageRef:  d.ImageURL,
	}
}

type DishPage struct {
	Dishes []Dish `json:"dishes"`
	Total  int    `json:"total"`
}

type DishInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ImageName   string
	Image       []byte
}
