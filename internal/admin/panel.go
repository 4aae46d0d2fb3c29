package admin

import (
	"context"
	"strings"

	slogctx "github.com/veqryn/slog-context"

	d "github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/serviceerr"
	"github.com/fjod/go_cart/storefront/internal/session"
)

const listLimit = 100

var ErrAccessDenied = serviceerr.New(serviceerr.KindForbidden, "admin", "admin role required")

type Roles interface {
	GetRole(ctx context.Context) session.RoleResult
}

type API interface {
	ListDishes(ctx context.Context, skip, limit int) (*d.DishPage, error)
	CreateDish(ctx context.Context, in d.DishInput) (*d.Dish, error)
	DeleteDish(ctx context.Context, id int64) error
}

// Panel is dish management for admins. Every operation re-checks the role
// with the backend before doing anything else.
type Panel struct {
	roles Roles
	api   API
}

func NewPanel(roles Roles, api API) *Panel {
	return &Panel{roles: roles, api: api}
}

func (p *Panel) Dishes(ctx context.Context) ([]d.Dish, error) {
	if err := p.authorize(ctx); err != nil {
		return nil, err
	}
	page, err := p.api.ListDishes(ctx, 0, listLimit)
	if err != nil {
		return nil, err
	}
	return page.Dishes, nil
}

func (p *Panel) CreateDish(ctx context.Context, in d.DishInput) (*d.Dish, error) {
	if err := p.authorize(ctx); err != nil {
		return nil, err
	}
	if err := validateDish(in); err != nil {
		return nil, err
	}

	dish, err := p.api.CreateDish(ctx, in)
	if err != nil {
		return nil, err
	}
	slogctx.Info(ctx, "dish created", "dish_id", dish.ID, "name", dish.Name)
	return dish, nil
}

func (p *Panel) DeleteDish(ctx context.Context, id int64) error {
	if err := p.authorize(ctx); err != nil {
		return err
	}
	if err := p.api.DeleteDish(ctx, id); err != nil {
		return err
	}
	slogctx.Info(ctx, "dish deleted", "dish_id", id)
	return nil
}

func (p *Panel) authorize(ctx context.Context) error {
	res := p.roles.GetRole(ctx)
	if res.IsAdmin() {
		return nil
	}
	if res.Status == session.RoleFailed {
		slogctx.Warn(ctx, "role check failed", "reason", res.Reason(), "error", res.Err)
	}
	return ErrAccessDenied
}

func validateDish(in d.DishInput) error {
	const op = "admin.create_dish"

	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Description) == "" {
		return serviceerr.Validation(op, "name and description are required")
	}
	if !in.Price.IsPositive() {
		return serviceerr.Validation(op, "price must be positive")
	}
	if len(in.Image) == 0 || in.ImageName == "" {
		return serviceerr.Validation(op, "image is required")
	}
	return nil
}
