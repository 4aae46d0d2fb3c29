package menu

import (
	"context"

	d "github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/serviceerr"
)

const DefaultPageSize = 12

type API interface {
	ListDishes(ctx context.Context, skip, limit int) (*d.DishPage, error)
	GetDish(ctx context.Context, id int64) (*d.Dish, error)
	ImageURL(ref string) string
}

// CartView tells the menu how many of a dish are already in the cart.
type CartView interface {
	Quantity(itemID int64) int
}

// Entry is a dish as the menu shows it: image resolved to a URL and the
// current cart quantity alongside.
type Entry struct {
	d.Dish
	InCart int `json:"in_cart"`
}

type Page struct {
	Number     int     `json:"page"`
	Size       int     `json:"page_size"`
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
	Dishes     []Entry `json:"dishes"`
}

type Browser struct {
	api  API
	cart CartView
	size int
}

func NewBrowser(api API, cart CartView, pageSize int) *Browser {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Browser{api: api, cart: cart, size: pageSize}
}

// Page returns the 1-based page n. Pages past the last one are rejected;
// page 1 of an empty menu is an empty page.
func (b *Browser) Page(ctx context.Context, n int) (*Page, error) {
	const op = "menu.page"
	if n < 1 {
		return nil, serviceerr.Validation(op, "page must be at least 1, got %d", n)
	}

	res, err := b.api.ListDishes(ctx, (n-1)*b.size, b.size)
	if err != nil {
		return nil, err
	}

	totalPages := (res.Total + b.size - 1) / b.size
	if n > 1 && n > totalPages {
		return nil, serviceerr.Validation(op, "page %d out of range, %d pages", n, totalPages)
	}

	page := &Page{
		Number:     n,
		Size:       b.size,
		Total:      res.Total,
		TotalPages: totalPages,
		Dishes:     make([]Entry, 0, len(res.Dishes)),
	}
	for _, dish := range res.Dishes {
		page.Dishes = append(page.Dishes, b.entry(dish))
	}
	return page, nil
}

func (b *Browser) Dish(ctx context.Context, id int64) (*Entry, error) {
	dish, err := b.api.GetDish(ctx, id)
	if err != nil {
		return nil, err
	}
	e := b.entry(*dish)
	return &e, nil
}

func (b *Browser) InCart(dishID int64) int {
	if b.cart == nil {
		return 0
	}
	return b.cart.Quantity(dishID)
}

func (b *Browser) entry(dish d.Dish) Entry {
	dish.ImageURL = b.api.ImageURL(dish.ImageURL)
	return Entry{Dish: dish, InCart: b.InCart(dish.ID)}
}
