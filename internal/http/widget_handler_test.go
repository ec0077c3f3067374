package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/fjod/go_cart/cart-widget/internal/domain"
	"github.com/fjod/go_cart/cart-widget/internal/kv"
	"github.com/fjod/go_cart/cart-widget/internal/persistence"
	"github.com/fjod/go_cart/cart-widget/internal/projection"
	"github.com/fjod/go_cart/cart-widget/internal/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSource struct {
	products []domain.Product
	err      error
}

func (s *stubSource) Load(context.Context) ([]domain.Product, error) {
	return s.products, s.err
}

func setupServer(t *testing.T) (http.Handler, kv.Store, *stubSource) {
	t.Helper()
	store := kv.NewMemoryStore()
	source := &stubSource{products: []domain.Product{
		{ID: "1", Title: "Widget", Price: 10, ThumbnailURL: "/1.png"},
		{ID: "2", Title: "Gadget", Price: 2.5, ThumbnailURL: "/2.png"},
	}}
	w := widget.New(source, persistence.NewAdapter(store, "carrito"), zap.NewNop())
	w.Start(context.Background())

	h := NewWidgetHandler(w, 5*time.Second, zap.NewNop())
	return NewRouter(h, 5*time.Second, zap.NewNop()), store, source
}

func postAction(t *testing.T, srv http.Handler, htmx bool, region, role, id string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"region": {region}, "role": {role}, "id": {id}}
	req := httptest.NewRequest(http.MethodPost, "/actions", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func getCart(t *testing.T, srv http.Handler) CartResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	srv, _, _ := setupServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDPropagated(t *testing.T) {
	srv, _, _ := setupServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestPage_RendersCatalogAndEmptyCart(t *testing.T) {
	srv, _, _ := setupServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 2, strings.Count(body, "Comprar"))
	assert.Contains(t, body, projection.EmptyCartText)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestAction_BuyHTMXReturnsCartFragment(t *testing.T) {
	srv, _, _ := setupServer(t)

	rec := postAction(t, srv, true, "cards", "buy", "1")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, `<table class="table" id="cart">`))
	assert.Contains(t, body, "Total productos")
	assert.NotContains(t, body, "Comprar")

	rec = postAction(t, srv, true, "cards", "buy", "1")
	require.Equal(t, http.StatusOK, rec.Code)

	cart := getCart(t, srv)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Cantidad)
	assert.Equal(t, 2, cart.TotalQuantity)
	assert.Equal(t, 20.0, cart.TotalPrice)
}

func TestAction_PlainFormRedirects(t *testing.T) {
	srv, _, _ := setupServer(t)

	rec := postAction(t, srv, false, "cards", "buy", "2")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Len(t, getCart(t, srv).Lines, 1)
}

func TestAction_PersistsSnapshot(t *testing.T) {
	srv, store, _ := setupServer(t)

	postAction(t, srv, true, "cards", "buy", "2")
	postAction(t, srv, true, "items", "increment", "2")

	raw, err := store.Get(context.Background(), "carrito")
	require.NoError(t, err)
	assert.JSONEq(t, `{"2":{"id":"2","title":"Gadget","precio":2.5,"cantidad":2}}`, string(raw))
}

func TestAction_DecrementToZeroShowsPlaceholder(t *testing.T) {
	srv, _, _ := setupServer(t)

	postAction(t, srv, true, "cards", "buy", "1")
	rec := postAction(t, srv, true, "items", "decrement", "1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), projection.EmptyCartText)
	assert.True(t, getCart(t, srv).Empty)
}

func TestAction_Clear(t *testing.T) {
	srv, _, _ := setupServer(t)

	postAction(t, srv, true, "cards", "buy", "1")
	postAction(t, srv, true, "cards", "buy", "2")
	rec := postAction(t, srv, true, "footer", "clear", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), projection.EmptyCartText)
	assert.True(t, getCart(t, srv).Empty)
}

func TestAction_NotFound(t *testing.T) {
	srv, _, _ := setupServer(t)

	rec := postAction(t, srv, true, "items", "increment", "1")
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Code)
}

func TestAction_UnrecognizedControlIsNoop(t *testing.T) {
	srv, _, _ := setupServer(t)

	rec := postAction(t, srv, true, "items", "buy", "1")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = postAction(t, srv, true, "cards", "buy", "unknown")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, getCart(t, srv).Empty)
}

func TestGetCatalog(t *testing.T) {
	srv, _, _ := setupServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var products []ProductDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 2)
	assert.Equal(t, "Gadget", products[1].Title)
	assert.Equal(t, 2.5, products[1].Precio)
}

func TestRefreshCatalog_Failure(t *testing.T) {
	srv, _, source := setupServer(t)
	source.err = domain.ErrFetch

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/catalog/refresh", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotContains(t, rec.Body.String(), "Comprar")
}
