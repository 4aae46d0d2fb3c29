package session

import (
	"context"
	"errors"
	"strings"

	slogctx "github.com/veqryn/slog-context"

	"github.com/fjod/go_cart/storefront/internal/storage"
)

// TokenStore keeps the bearer token in durable storage under the "token"
// key. It is the only source of truth for whether a user is logged in.
type TokenStore struct {
	store storage.Store
}

func NewTokenStore(st storage.Store) *TokenStore {
	return &TokenStore{store: st}
}

// GetToken is a pure read. A missing, empty or unreadable token reports
// false; read errors are logged.
func (t *TokenStore) GetToken(ctx context.Context) (string, bool) {
	data, err := t.store.Get(ctx, storage.KeyToken)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slogctx.Warn(ctx, "token read failed", "error", err)
		}
		return "", false
	}
	token := strings.TrimSpace(string(data))
	return token, token != ""
}

func (t *TokenStore) SetToken(ctx context.Context, token string) error {
	return t.store.Set(ctx, storage.KeyToken, []byte(token))
}

func (t *TokenStore) Delete(ctx context.Context) error {
	return t.store.Delete(ctx, storage.KeyToken)
}
