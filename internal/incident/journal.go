package incident

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/storage"
)

// Incident records a checkout where the payment was taken but no order was
// created. Nothing repairs it automatically; it exists so an operator can.
type Incident struct {
	ID            string               `json:"id"`
	TransactionID int64                `json:"transaction_id"`
	UserID        int64                `json:"user_id"`
	Amount        decimal.Decimal      `json:"amount"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Items         []domain.OrderItem   `json:"items"`
	Reason        string               `json:"reason"`
	CreatedAt     time.Time            `json:"created_at"`
	Published     bool                 `json:"published"`
}

// Journal is an append-only list of incidents kept in durable storage.
type Journal struct {
	mu    sync.Mutex
	store storage.Store
	now   func() time.Time
}

func NewJournal(st storage.Store) *Journal {
	return &Journal{store: st, now: time.Now}
}

// Record appends inc, filling in ID and CreatedAt when unset.
func (j *Journal) Record(ctx context.Context, inc Incident) (Incident, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if inc.ID == "" {
		inc.ID = uuid.NewString()
	}
	if inc.CreatedAt.IsZero() {
		inc.CreatedAt = j.now().UTC()
	}

	all, err := j.load(ctx)
	if err != nil {
		return Incident{}, err
	}
	all = append(all, inc)
	if err := j.save(ctx, all); err != nil {
		return Incident{}, err
	}
	return inc, nil
}

func (j *Journal) List(ctx context.Context) ([]Incident, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.load(ctx)
}

func (j *Journal) Unpublished(ctx context.Context) ([]Incident, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	all, err := j.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []Incident
	for _, inc := range all {
		if !inc.Published {
			out = append(out, inc)
		}
	}
	return out, nil
}

func (j *Journal) MarkPublished(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	all, err := j.load(ctx)
	if err != nil {
		return err
	}
	marked := make(map[string]bool, len(ids))
	for _, id := range ids {
		marked[id] = true
	}
	for i := range all {
		if marked[all[i].ID] {
			all[i].Published = true
		}
	}
	return j.save(ctx, all)
}

func (j *Journal) load(ctx context.Context) ([]Incident, error) {
	data, err := j.store.Get(ctx, storage.KeyIncidents)
	if errors.Is(err, storage.ErrNotFound) {
		return []Incident{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read incident journal: %w", err)
	}

	var all []Incident
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("decode incident journal: %w", err)
	}
	return all, nil
}

func (j *Journal) save(ctx context.Context, all []Incident) error {
	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode incident journal: %w", err)
	}
	if err := j.store.Set(ctx, storage.KeyIncidents, data); err != nil {
		return fmt.Errorf("write incident journal: %w", err)
	}
	return nil
}
