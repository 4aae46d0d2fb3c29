package orders

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	d "github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/session"
)

const defaultConcurrency = 8

type API interface {
	ListOrders(ctx context.Context) ([]d.Order, error)
	GetDish(ctx context.Context, id int64) (*d.Dish, error)
	ImageURL(ref string) string
}

type Profiles interface {
	IsAuthenticated(ctx context.Context) bool
	Profile(ctx context.Context) (*d.User, error)
}

// View is the order history page: the delivery address plus every order
// with its items joined to the dishes they refer to.
type View struct {
	Address string            `json:"delivery_address"`
	Orders  []d.DetailedOrder `json:"orders"`
}

type History struct {
	api         API
	profiles    Profiles
	concurrency int
}

func NewHistory(api API, profiles Profiles) *History {
	return &History{api: api, profiles: profiles, concurrency: defaultConcurrency}
}

// List loads the current user's orders. Without a token it fails before
// any request. Any failed lookup aborts the whole listing.
func (h *History) List(ctx context.Context) (*View, error) {
	if !h.profiles.IsAuthenticated(ctx) {
		return nil, session.ErrNoToken
	}

	var (
		user   *d.User
		orders []d.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = h.profiles.Profile(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = h.api.ListOrders(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	detailed, err := h.enrich(ctx, orders, user.Address)
	if err != nil {
		return nil, err
	}
	return &View{Address: user.Address, Orders: detailed}, nil
}

func (h *History) enrich(ctx context.Context, orders []d.Order, address string) ([]d.DetailedOrder, error) {
	out := make([]d.DetailedOrder, len(orders))
	dishes := newDishCache()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.concurrency)

	for i, o := range orders {
		out[i] = d.DetailedOrder{
			ID:            o.ID,
			TransactionID: o.TransactionID,
			Status:        o.Status,
			CreatedAt:     o.CreatedAt,
			Address:       address,
			Items:         make([]d.DetailedOrderItem, len(o.Items)),
		}
		for j, it := range o.Items {
			g.Go(func() error {
				dish, err := h.dish(gctx, it.DishID, dishes)
				if err != nil {
					return err
				}
				out[i].Items[j] = d.DetailedOrderItem{
					DishID:   it.DishID,
					Amount:   it.Amount,
					Name:     dish.Name,
					Price:    dish.Price,
					ImageURL: h.api.ImageURL(dish.ImageURL),
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (h *History) dish(ctx context.Context, id int64, cache *dishCache) (*d.Dish, error) {
	v, err, _ := cache.flights.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		if dish, ok := cache.get(id); ok {
			return dish, nil
		}
		dish, err := h.api.GetDish(ctx, id)
		if err != nil {
			return nil, err
		}
		cache.put(id, dish)
		return dish, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*d.Dish), nil
}

// dishCache lives for one List call, so flights never outlive the
// context that started them.
type dishCache struct {
	flights singleflight.Group
	mu      sync.Mutex
	m       map[int64]*d.Dish
}

func newDishCache() *dishCache {
	return &dishCache{m: make(map[int64]*d.Dish)}
}

func (c *dishCache) get(id int64) (*d.Dish, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	dish, ok := c.m[id]
	return dish, ok
}

func (c *dishCache) put(id int64, dish *d.Dish) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[id] = dish
}
