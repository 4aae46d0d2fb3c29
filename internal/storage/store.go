package storage

import (
	"context"
	"errors"
)

// Keys used for client-side state.
const (
	KeyCart      = "cart"
	KeyToken     = "token"
	KeyIncidents = "checkout_incidents"
)

// Store is durable client-side key/value storage, the equivalent of the
// browser's localStorage. Values are opaque bytes.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("key not found")
