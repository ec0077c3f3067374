package dispatch

import (
	"context"
	"fmt"

	"github.com/fjod/go_cart/cart-widget/internal/cart"
	"github.com/fjod/go_cart/cart-widget/internal/domain"
	"go.uber.org/zap"
)

// ProductLookup finds a product among the cards currently shown.
type ProductLookup interface {
	Product(id string) (domain.Product, bool)
}

// Dispatcher turns UI events into Cart Store calls.
type Dispatcher struct {
	store    *cart.Store
	products ProductLookup
	logger   *zap.Logger
}

func NewDispatcher(store *cart.Store, products ProductLookup, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		store:    store,
		products: products,
		logger:   logger,
	}
}

// Dispatch applies ev to the cart and returns the action taken. Events that
// match no control, or that were already handled, are ignored and return
// ActionNone. domain.ErrNotFound is returned as is.
func (d *Dispatcher) Dispatch(_ context.Context, ev *Event) (Action, error) {
	if ev == nil || ev.Stopped() {
		return ActionNone, nil
	}

	action := ev.Action()
	switch action {
	case ActionAdd:
		p, ok := d.products.Product(ev.ProductID)
		if !ok {
			d.logger.Debug("buy for product not in catalog", zap.String("product_id", ev.ProductID))
			return ActionNone, nil
		}
		d.store.Add(p.ID, p.Title, p.Price)
	case ActionIncrement:
		if err := d.store.Increment(ev.ProductID); err != nil {
			return action, fmt.Errorf("dispatch %s: %w", action, err)
		}
	case ActionDecrement:
		if err := d.store.Decrement(ev.ProductID); err != nil {
			return action, fmt.Errorf("dispatch %s: %w", action, err)
		}
	case ActionClear:
		d.store.Clear()
	default:
		return ActionNone, nil
	}

	ev.Stop()
	return action, nil
}
