package admin

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	d "github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/serviceerr"
	"github.com/fjod/go_cart/storefront/internal/session"
)

type fixedRole session.RoleResult

func (f fixedRole) GetRole(context.Context) session.RoleResult { return session.RoleResult(f) }

type mockAPI struct {
	calls     int
	lastLimit int
	created   d.DishInput
	deleted   int64
}

func (m *mockAPI) ListDishes(_ context.Context, _, limit int) (*d.DishPage, error) {
	m.calls++
	m.lastLimit = limit
	return &d.DishPage{Dishes: []d.Dish{{ID: 1, Name: "Soup"}}, Total: 1}, nil
}

func (m *mockAPI) CreateDish(_ context.Context, in d.DishInput) (*d.Dish, error) {
	m.calls++
	m.created = in
	return &d.Dish{ID: 9, Name: in.Name, Price: in.Price}, nil
}

func (m *mockAPI) DeleteDish(_ context.Context, id int64) error {
	m.calls++
	m.deleted = id
	return nil
}

var admin = fixedRole{Status: session.RoleOk, Role: d.RoleAdmin}

func validInput() d.DishInput {
	return d.DishInput{
		Name:        "Borscht",
		Description: "Beet soup",
		Price:       decimal.RequireFromString("7.50"),
		ImageName:   "borscht.png",
		Image:       []byte{0x89, 'P', 'N', 'G'},
	}
}

func TestPanel_NonAdminDenied(t *testing.T) {
	for name, role := range map[string]fixedRole{
		"absent": {Status: session.RoleAbsent},
		"user":   {Status: session.RoleOk, Role: d.RoleUser},
		"failed": {Status: session.RoleFailed, Err: serviceerr.New(serviceerr.KindTransport, "users.me", "")},
	} {
		t.Run(name, func(t *testing.T) {
			api := &mockAPI{}
			p := NewPanel(role, api)
			ctx := context.Background()

			_, err := p.Dishes(ctx)
			assert.ErrorIs(t, err, ErrAccessDenied)
			_, err = p.CreateDish(ctx, validInput())
			assert.ErrorIs(t, err, ErrAccessDenied)
			err = p.DeleteDish(ctx, 1)
			assert.ErrorIs(t, err, ErrAccessDenied)
			assert.True(t, serviceerr.IsKind(err, serviceerr.KindForbidden))

			assert.Equal(t, 0, api.calls)
		})
	}
}

func TestPanel_Dishes(t *testing.T) {
	api := &mockAPI{}
	dishes, err := NewPanel(admin, api).Dishes(context.Background())

	require.NoError(t, err)
	assert.Len(t, dishes, 1)
	assert.Equal(t, 100, api.lastLimit)
}

func TestPanel_CreateDish(t *testing.T) {
	api := &mockAPI{}
	dish, err := NewPanel(admin, api).CreateDish(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, int64(9), dish.ID)
	assert.Equal(t, "borscht.png", api.created.ImageName)
}

func TestPanel_CreateDishValidation(t *testing.T) {
	tests := map[string]func(*d.DishInput){
		"no name":        func(in *d.DishInput) { in.Name = " " },
		"no description": func(in *d.DishInput) { in.Description = "" },
		"zero price":     func(in *d.DishInput) { in.Price = decimal.Zero },
		"no image":       func(in *d.DishInput) { in.Image = nil },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			api := &mockAPI{}
			in := validInput()
			mutate(&in)

			_, err := NewPanel(admin, api).CreateDish(context.Background(), in)
			assert.True(t, serviceerr.IsKind(err, serviceerr.KindValidation))
			assert.Equal(t, 0, api.calls)
		})
	}
}

func TestPanel_DeleteDish(t *testing.T) {
	api := &mockAPI{}
	require.NoError(t, NewPanel(admin, api).DeleteDish(context.Background(), 4))
	assert.Equal(t, int64(4), api.deleted)
}
