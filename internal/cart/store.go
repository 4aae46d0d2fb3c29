package cart

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"

	"github.com/shopspring/decimal"
	slogctx "github.com/veqryn/slog-context"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/storage"
)

// Store is the client-side cart. Every mutation is written through to
// durable storage before it returns. A failed write is logged and the
// in-memory state stays authoritative for the rest of the process.
type Store struct {
	mu    sync.Mutex
	lines []domain.CartLine
	store storage.Store
}

// NewStore loads the persisted snapshot. A missing or malformed snapshot
// yields an empty cart.
func NewStore(ctx context.Context, st storage.Store) *Store {
	s := &Store{store: st}
	s.lines = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []domain.CartLine {
	data, err := s.store.Get(ctx, storage.KeyCart)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		slogctx.Warn(ctx, "cart snapshot read failed, starting empty", "error", err)
		return nil
	}

	var snapshot []domain.CartLine
	if err := json.Unmarshal(data, &snapshot); err != nil {
		slogctx.Warn(ctx, "cart snapshot malformed, starting empty", "error", err)
		return nil
	}

	lines := make([]domain.CartLine, 0, len(snapshot))
	seen := make(map[int64]bool, len(snapshot))
	for _, l := range snapshot {
		if l.Quantity <= 0 || seen[l.ItemID] {
			continue
		}
		seen[l.ItemID] = true
		lines = append(lines, l)
	}
	return lines
}

// AddItem increments the line for item.ID or appends a new line with
// quantity 1.
func (s *Store) AddItem(ctx context.Context, item domain.Item) []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(item.ID); i >= 0 {
		s.lines[i].Quantity = addQuantity(s.lines[i].Quantity, 1)
	} else {
		s.lines = append(s.lines, domain.CartLine{
			ItemID:    item.ID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			ImageRef:  item.ImageRef,
			Quantity:  1,
		})
	}

	s.persist(ctx)
	return s.snapshot()
}

// UpdateQuantity adds delta to the line's quantity. Lines dropping to zero
// or below are removed. Unknown ids leave the cart unchanged.
func (s *Store) UpdateQuantity(ctx context.Context, itemID int64, delta int) []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(itemID); i >= 0 {
		q := addQuantity(s.lines[i].Quantity, delta)
		if q == 0 {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
		} else {
			s.lines[i].Quantity = q
		}
	}

	s.persist(ctx)
	return s.snapshot()
}

// addQuantity saturates at math.MaxInt and floors at zero.
func addQuantity(q, delta int) int {
	if delta > 0 && q > math.MaxInt-delta {
		return math.MaxInt
	}
	return max(q+delta, 0)
}

// Clear empties the cart and removes the persisted snapshot.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	if err := s.store.Delete(ctx, storage.KeyCart); err != nil {
		slogctx.Error(ctx, "cart snapshot delete failed", "error", err)
	}
}

func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Lines returns a copy of the cart in insertion order.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Quantity reports how many of itemID are in the cart, 0 if none.
func (s *Store) Quantity(itemID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(itemID); i >= 0 {
		return s.lines[i].Quantity
	}
	return 0
}

func (s *Store) indexOf(itemID int64) int {
	for i := range s.lines {
		if s.lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

func (s *Store) snapshot() []domain.CartLine {
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// persist must be called with mu held.
func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.snapshot())
	if err != nil {
		slogctx.Error(ctx, "cart snapshot marshal failed", "error", err)
		return
	}
	if err := s.store.Set(ctx, storage.KeyCart, data); err != nil {
		slogctx.Error(ctx, "cart snapshot write failed", "error", err)
	}
}
