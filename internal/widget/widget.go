package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fjod/go_cart/cart-widget/internal/cart"
	"github.com/fjod/go_cart/cart-widget/internal/dispatch"
	"github.com/fjod/go_cart/cart-widget/internal/domain"
	"github.com/fjod/go_cart/cart-widget/internal/persistence"
	"github.com/fjod/go_cart/cart-widget/internal/projection"
	"go.uber.org/zap"
)

var ErrSave = errors.New("cart not saved")

type CatalogSource interface {
	Load(ctx context.Context) ([]domain.Product, error)
}

// Widget is one cart session: the cart store, its persisted copy and the
// catalog currently on display. Mutations are serialized and each one is
// followed by a save of the full snapshot.
type Widget struct {
	mu         sync.Mutex
	store      *cart.Store
	persist    *persistence.Adapter
	dispatcher *dispatch.Dispatcher

	catalogMu sync.RWMutex
	source    CatalogSource
	products  []domain.Product
	byID      map[string]domain.Product

	logger *zap.Logger
}

func New(source CatalogSource, persist *persistence.Adapter, logger *zap.Logger) *Widget {
	w := &Widget{
		store:   cart.NewStore(),
		persist: persist,
		source:  source,
		byID:    make(map[string]domain.Product),
		logger:  logger,
	}
	w.dispatcher = dispatch.NewDispatcher(w.store, w, logger)
	return w
}

// Start loads the catalog and hydrates the cart from storage. Neither step
// can fail the session: a missing catalog shows no cards, an unreadable
// cart starts empty.
func (w *Widget) Start(ctx context.Context) {
	if err := w.RefreshCatalog(ctx); err != nil {
		w.logger.Error("catalog load failed", zap.Error(err))
	}
	w.hydrate(ctx)
}

func (w *Widget) hydrate(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	lines, found, err := w.persist.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrCorruptState):
		w.logger.Warn("discarding persisted cart", zap.String("key", w.persist.Key()), zap.Error(err))
		return
	case err != nil:
		w.logger.Error("persisted cart unavailable", zap.String("key", w.persist.Key()), zap.Error(err))
		return
	case !found:
		return
	}

	if err := w.store.Replace(lines); err != nil {
		w.logger.Warn("discarding persisted cart", zap.String("key", w.persist.Key()), zap.Error(err))
		return
	}
	w.logger.Info("cart restored", zap.Int("lines", len(lines)))
}

// RefreshCatalog reloads the product list. On failure the catalog is left
// empty and the error returned.
func (w *Widget) RefreshCatalog(ctx context.Context) error {
	products, err := w.source.Load(ctx)
	if err != nil {
		products = nil
	}

	w.catalogMu.Lock()
	defer w.catalogMu.Unlock()

	w.products = products
	w.byID = make(map[string]domain.Product, len(products))
	for _, p := range products {
		w.byID[p.ID] = p
	}
	return err
}

// Product implements dispatch.ProductLookup over the displayed catalog.
func (w *Widget) Product(id string) (domain.Product, bool) {
	w.catalogMu.RLock()
	defer w.catalogMu.RUnlock()
	p, ok := w.byID[id]
	return p, ok
}

func (w *Widget) Products() []domain.Product {
	w.catalogMu.RLock()
	defer w.catalogMu.RUnlock()
	return append([]domain.Product(nil), w.products...)
}

// Dispatch applies a UI event. When the cart changed, the new snapshot is
// saved before Dispatch returns; a failed save wraps ErrSave while the
// in-memory cart keeps the change.
func (w *Widget) Dispatch(ctx context.Context, ev *dispatch.Event) (dispatch.Action, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	action, err := w.dispatcher.Dispatch(ctx, ev)
	if err != nil {
		w.logger.Error("cart action rejected",
			zap.Stringer("action", action),
			zap.String("product_id", ev.ProductID),
			zap.Error(err))
		return action, err
	}
	if action == dispatch.ActionNone {
		return action, nil
	}

	if err := w.persist.Save(ctx, w.store.Snapshot()); err != nil {
		w.logger.Error("cart save failed", zap.Stringer("action", action), zap.Error(err))
		return action, fmt.Errorf("%w: %w", ErrSave, err)
	}
	return action, nil
}

func (w *Widget) Snapshot() []domain.CartLine {
	return w.store.Snapshot()
}

// View projects the current catalog and cart.
func (w *Widget) View() projection.PageView {
	return projection.Page(w.Products(), w.store.Snapshot())
}
