package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/cart-widget/internal/domain"
	"github.com/fjod/go_cart/cart-widget/internal/kv"
)

const DefaultKey = "carrito"

// Adapter bridges the cart store and a single key in durable storage.
type Adapter struct {
	store kv.Store
	key   string
}

func NewAdapter(store kv.Store, key string) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{store: store, key: key}
}

func (a *Adapter) Key() string { return a.key }

// Load returns the persisted cart. found is false when nothing has been
// saved yet. Malformed content is reported as domain.ErrCorruptState.
func (a *Adapter) Load(ctx context.Context) (lines []domain.CartLine, found bool, err error) {
	data, err := a.store.Get(ctx, a.key)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %q: %w", a.key, err)
	}

	lines, err = decode(data)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
	}
	return lines, true, nil
}

// Save overwrites the persisted record with the full snapshot.
func (a *Adapter) Save(ctx context.Context, lines []domain.CartLine) error {
	data, err := encode(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := a.store.Set(ctx, a.key, data); err != nil {
		return fmt.Errorf("save %q: %w", a.key, err)
	}
	return nil
}

// Discard removes the persisted record entirely.
func (a *Adapter) Discard(ctx context.Context) error {
	if err := a.store.Delete(ctx, a.key); err != nil {
		return fmt.Errorf("discard %q: %w", a.key, err)
	}
	return nil
}
