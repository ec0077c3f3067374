package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/fjod/go_cart/cart-widget/internal/dispatch"
	"github.com/fjod/go_cart/cart-widget/internal/domain"
	"github.com/fjod/go_cart/cart-widget/internal/projection"
	"github.com/fjod/go_cart/cart-widget/internal/widget"
	"go.uber.org/zap"
)

const maxFormBytes = 64 << 10

type WidgetHandler struct {
	widget  *widget.Widget
	timeout time.Duration
	logger  *zap.Logger
}

func NewWidgetHandler(w *widget.Widget, timeout time.Duration, logger *zap.Logger) *WidgetHandler {
	return &WidgetHandler{
		widget:  w,
		timeout: timeout,
		logger:  logger,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type CartLineDTO struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Precio   float64 `json:"precio"`
	Cantidad int     `json:"cantidad"`
	Total    float64 `json:"total"`
}

type CartResponse struct {
	Lines         []CartLineDTO `json:"lines"`
	Empty         bool          `json:"empty"`
	TotalQuantity int           `json:"totalQuantity"`
	TotalPrice    float64       `json:"totalPrice"`
}

type ProductDTO struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	ThumbnailURL string  `json:"thumbnailUrl"`
	Precio       float64 `json:"precio"`
}

func (h *WidgetHandler) Page(w http.ResponseWriter, r *http.Request) {
	h.renderHTML(w, r, http.StatusOK, projection.PageComponent(h.widget.View()))
}

// Action handles every control on the page. The form carries the control's
// region, role and product id; the dispatcher decides what it means.
func (h *WidgetHandler) Action(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid form body")
		return
	}

	ev := &dispatch.Event{
		Region:    dispatch.Region(strings.TrimSpace(r.PostForm.Get("region"))),
		Role:      dispatch.Role(strings.TrimSpace(r.PostForm.Get("role"))),
		ProductID: strings.TrimSpace(r.PostForm.Get("id")),
	}

	action, err := h.widget.Dispatch(ctx, ev)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusConflict, "not_found", "product is not in the cart")
		return
	case errors.Is(err, widget.ErrSave):
		// the in-memory cart changed; show it even though it was not persisted
		h.logger.Warn("rendering unsaved cart", zap.Error(err), zap.String("request_id", getRequestID(r.Context())))
	case err != nil:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	if !isHTMXRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if action == dispatch.ActionNone {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	view := h.widget.View()
	h.renderHTML(w, r, http.StatusOK, projection.CartComponent(view.Lines, view.Footer))
}

func (h *WidgetHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	lines := h.widget.Snapshot()
	totals := domain.ComputeTotals(lines)

	resp := CartResponse{
		Lines:         make([]CartLineDTO, len(lines)),
		Empty:         len(lines) == 0,
		TotalQuantity: totals.Quantity,
		TotalPrice:    totals.Price,
	}
	for i, l := range lines {
		resp.Lines[i] = CartLineDTO{
			ID:       l.ID,
			Title:    l.Title,
			Precio:   l.Price,
			Cantidad: l.Quantity,
			Total:    l.LineTotal(),
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *WidgetHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	products := h.widget.Products()
	resp := make([]ProductDTO, len(products))
	for i, p := range products {
		resp[i] = ProductDTO{
			ID:           p.ID,
			Title:        p.Title,
			ThumbnailURL: p.ThumbnailURL,
			Precio:       p.Price,
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// RefreshCatalog reloads the product list once; it does not retry.
func (h *WidgetHandler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.widget.RefreshCatalog(ctx); err != nil {
		h.logger.Error("catalog refresh failed", zap.Error(err))
		respondError(w, http.StatusBadGateway, "catalog_unavailable", "catalog unavailable")
		return
	}
	h.GetCatalog(w, r)
}

func (h *WidgetHandler) renderHTML(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	body, err := projection.Render(r.Context(), c)
	if err != nil {
		h.logger.Error("render failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "render failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.logger.Debug("failed to write response", zap.Error(err))
	}
}

func isHTMXRequest(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
