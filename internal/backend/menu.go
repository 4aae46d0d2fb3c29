package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/serviceerr"
)

// ListDishes fetches one page of the menu. The menu service answers an
// empty page with 404, which is reported as an empty page here.
func (c *Client) ListDishes(ctx context.Context, skip, limit int) (*domain.DishPage, error) {
	var raw json.RawMessage
	err := c.do(ctx, "menu.list", func(r *resty.Request) (*resty.Response, error) {
		return r.SetQueryParams(map[string]string{
			"skip":  strconv.Itoa(skip),
			"limit": strconv.Itoa(limit),
		}).Get("/menu/dishes")
	}, &raw)
	if serviceerr.IsKind(err, serviceerr.KindNotFound) {
		return &domain.DishPage{Dishes: []domain.Dish{}}, nil
	}
	if err != nil {
		return nil, err
	}

	return decodeDishPage(raw)
}

// decodeDishPage accepts both the {dishes, total} envelope and a bare list.
func decodeDishPage(raw json.RawMessage) (*domain.DishPage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var dishes []domain.Dish
		if err := json.Unmarshal(trimmed, &dishes); err != nil {
			return nil, serviceerr.Wrap(serviceerr.KindMalformed, "menu.list", err)
		}
		return &domain.DishPage{Dishes: dishes, Total: len(dishes)}, nil
	}

	var page domain.DishPage
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, serviceerr.Wrap(serviceerr.KindMalformed, "menu.list", err)
	}
	if page.Dishes == nil {
		page.Dishes = []domain.Dish{}
	}
	return &page, nil
}

func (c *Client) GetDish(ctx context.Context, id int64) (*domain.Dish, error) {
	var dish domain.Dish
	err := c.do(ctx, "menu.get", func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("id", strconv.FormatInt(id, 10)).Get("/menu/dishes/{id}")
	}, &dish)
	if err != nil {
		return nil, err
	}
	return &dish, nil
}

// CreateDish uploads a new dish with its image as multipart form data.
// Admin only; the backend enforces it.
func (c *Client) CreateDish(ctx context.Context, in domain.DishInput) (*domain.Dish, error) {
	var dish domain.Dish
	err := c.do(ctx, "menu.create", func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetMultipartFormData(map[string]string{
				"name":        in.Name,
				"description": in.Description,
				"price":       in.Price.String(),
			}).
			SetFileReader("image", in.ImageName, bytes.NewReader(in.Image)).
			Post("/menu/dishes/")
	}, &dish)
	if err != nil {
		return nil, err
	}
	return &dish, nil
}

func (c *Client) DeleteDish(ctx context.Context, id int64) error {
	return c.do(ctx, "menu.delete", func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("id", strconv.FormatInt(id, 10)).Delete("/menu/dishes/{id}")
	}, nil)
}
