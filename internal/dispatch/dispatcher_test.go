package dispatch

import (
	"context"
	"testing"

	"github.com/fjod/go_cart/cart-widget/internal/cart"
	"github.com/fjod/go_cart/cart-widget/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type catalogStub map[string]domain.Product

func (c catalogStub) Product(id string) (domain.Product, bool) {
	p, ok := c[id]
	return p, ok
}

func newDispatcher() (*Dispatcher, *cart.Store) {
	store := cart.NewStore()
	products := catalogStub{
		"1": {ID: "1", Title: "Widget", Price: 10},
		"2": {ID: "2", Title: "Gadget", Price: 2.5},
	}
	return NewDispatcher(store, products, zap.NewNop()), store
}

func TestResolve(t *testing.T) {
	cases := []struct {
		region Region
		role   Role
		want   Action
	}{
		{RegionCards, RoleBuy, ActionAdd},
		{RegionItems, RoleIncrement, ActionIncrement},
		{RegionItems, RoleDecrement, ActionDecrement},
		{RegionFooter, RoleClear, ActionClear},
		{RegionItems, RoleBuy, ActionNone},
		{RegionCards, RoleIncrement, ActionNone},
		{RegionCards, RoleClear, ActionNone},
		{RegionFooter, RoleDecrement, ActionNone},
		{"", "", ActionNone},
		{"sidebar", RoleBuy, ActionNone},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Resolve(tc.region, tc.role), "%s/%s", tc.region, tc.role)
	}
}

func TestDispatch_BuyAddsFromCatalog(t *testing.T) {
	d, store := newDispatcher()
	ev := &Event{Region: RegionCards, Role: RoleBuy, ProductID: "1"}

	action, err := d.Dispatch(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ActionAdd, action)
	assert.True(t, ev.Stopped())

	lines := store.Snapshot()
	require.Len(t, lines, 1)
	assert.Equal(t, domain.CartLine{ID: "1", Title: "Widget", Price: 10, Quantity: 1}, lines[0])
}

func TestDispatch_BuyUnknownProductIsNoop(t *testing.T) {
	d, store := newDispatcher()
	ev := &Event{Region: RegionCards, Role: RoleBuy, ProductID: "99"}

	action, err := d.Dispatch(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ActionNone, action)
	assert.False(t, ev.Stopped())
	assert.Zero(t, store.Len())
}

func TestDispatch_IncrementDecrement(t *testing.T) {
	d, store := newDispatcher()
	ctx := context.Background()
	store.Add("2", "Gadget", 2.5)

	_, err := d.Dispatch(ctx, &Event{Region: RegionItems, Role: RoleIncrement, ProductID: "2"})
	require.NoError(t, err)
	assert.Equal(t, 2, store.Quantity("2"))

	_, err = d.Dispatch(ctx, &Event{Region: RegionItems, Role: RoleDecrement, ProductID: "2"})
	require.NoError(t, err)
	_, err = d.Dispatch(ctx, &Event{Region: RegionItems, Role: RoleDecrement, ProductID: "2"})
	require.NoError(t, err)
	assert.Zero(t, store.Len())
}

func TestDispatch_NotFoundSurfaces(t *testing.T) {
	d, _ := newDispatcher()
	ctx := context.Background()

	action, err := d.Dispatch(ctx, &Event{Region: RegionItems, Role: RoleIncrement, ProductID: "1"})
	assert.Equal(t, ActionIncrement, action)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = d.Dispatch(ctx, &Event{Region: RegionItems, Role: RoleDecrement, ProductID: "1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDispatch_Clear(t *testing.T) {
	d, store := newDispatcher()
	store.Add("1", "Widget", 10)
	store.Add("2", "Gadget", 2.5)

	action, err := d.Dispatch(context.Background(), &Event{Region: RegionFooter, Role: RoleClear})
	require.NoError(t, err)
	assert.Equal(t, ActionClear, action)
	assert.Zero(t, store.Len())
}

func TestDispatch_UnrecognizedIsNoop(t *testing.T) {
	d, store := newDispatcher()
	store.Add("1", "Widget", 10)

	action, err := d.Dispatch(context.Background(), &Event{Region: RegionItems, Role: RoleBuy, ProductID: "1"})
	require.NoError(t, err)
	assert.Equal(t, ActionNone, action)
	assert.Equal(t, 1, store.Quantity("1"))

	action, err = d.Dispatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, ActionNone, action)
}

func TestDispatch_StoppedEventIsNotReinterpreted(t *testing.T) {
	d, store := newDispatcher()
	ev := &Event{Region: RegionCards, Role: RoleBuy, ProductID: "1"}

	_, err := d.Dispatch(context.Background(), ev)
	require.NoError(t, err)

	// an enclosing listener sees the same event
	action, err := d.Dispatch(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ActionNone, action)
	assert.Equal(t, 1, store.Quantity("1"))
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "add", ActionAdd.String())
	assert.Equal(t, "none", Action(42).String())
}
