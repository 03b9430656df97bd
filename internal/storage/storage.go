package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Keys of the durable storefront state. Each value is rewritten in full
// whenever its collection changes.
const (
	KeyCart     = "cart"
	KeyUser     = "user"
	KeyProducts = "products"
	KeyOrders   = "orders"
)

var ErrNotFound = errors.New("key not found")

// Store is an opaque durable key-value store holding JSON documents.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// LoadJSON decodes key into dest. found is false when the key is absent.
func LoadJSON[T any](ctx context.Context, s Store, key string, dest *T) (found bool, err error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func SaveJSON(ctx context.Context, s Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}
