package projection

import (
	"bytes"
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// ActionPath is where every control posts its event.
const ActionPath = "/actions"

// htmlWriter keeps the first write error so components can stay linear.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) control(c Control, class, label string) {
	h.raw(`<form class="d-inline" method="post" action="` + ActionPath + `" hx-post="` + ActionPath + `" hx-target="#cart" hx-swap="outerHTML">`)
	h.raw(`<input type="hidden" name="region" value="`)
	h.text(string(c.Region))
	h.raw(`"><input type="hidden" name="role" value="`)
	h.text(string(c.Role))
	h.raw(`"><input type="hidden" name="id" value="`)
	h.text(c.ProductID)
	h.raw(`"><button type="submit" class="btn ` + class + ` btn-sm" data-id="`)
	h.text(c.ProductID)
	h.raw(`">`)
	h.text(label)
	h.raw(`</button></form>`)
}

func CatalogComponent(v CatalogView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="row" id="cards">`)
		for _, c := range v.Cards {
			h.raw(`<div class="col-12 mb-2 col-md-4"><div class="card"><div class="card-body">`)
			h.raw(`<img class="card-img-top" alt="" src="`)
			h.text(string(templ.URL(c.ThumbnailURL)))
			h.raw(`"><h5>`)
			h.text(c.Title)
			h.raw(`</h5><p>`)
			h.text(FormatAmount(c.Price))
			h.raw(`</p>`)
			h.control(c.Buy, "btn-dark", "Comprar")
			h.raw(`</div></div></div>`)
		}
		h.raw(`</div>`)
		return h.err
	})
}

func LinesComponent(v LinesView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<tbody id="items">`)
		for _, l := range v.Lines {
			h.raw(`<tr><th scope="row">`)
			h.text(l.ID)
			h.raw(`</th><td>`)
			h.text(l.Title)
			h.raw(`</td><td>`)
			h.text(strconv.Itoa(l.Quantity))
			h.raw(`</td><td>`)
			h.control(l.Increment, "btn-info", "+")
			h.control(l.Decrement, "btn-danger", "-")
			h.raw(`</td><td>$ <span>`)
			h.text(FormatAmount(l.LineTotal))
			h.raw(`</span></td></tr>`)
		}
		h.raw(`</tbody>`)
		return h.err
	})
}

func FooterComponent(v FooterView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<tfoot><tr id="footer">`)
		if v.Empty {
			h.raw(`<th scope="row" colspan="5">`)
			h.text(v.Placeholder)
			h.raw(`</th></tr></tfoot>`)
			return h.err
		}
		h.raw(`<th scope="row" colspan="2">Total productos</th><td>`)
		h.text(strconv.Itoa(v.TotalQuantity))
		h.raw(`</td><td>`)
		h.control(v.Clear, "btn-danger", "vaciar todo")
		h.raw(`</td><td class="font-weight-bold">$ <span>`)
		h.text(FormatAmount(v.TotalPrice))
		h.raw(`</span></td></tr></tfoot>`)
		return h.err
	})
}

// CartComponent is the swappable cart table: lines plus footer.
func CartComponent(lines LinesView, footer FooterView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<table class="table" id="cart"><thead><tr><th scope="col">#</th><th scope="col">Item</th>` +
			`<th scope="col">Cantidad</th><th scope="col">Acción</th><th scope="col">Total</th></tr></thead>`)
		if h.err != nil {
			return h.err
		}
		if err := LinesComponent(lines).Render(ctx, w); err != nil {
			return err
		}
		if err := FooterComponent(footer).Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</table>`)
		return h.err
	})
}

func PageComponent(v PageView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="es"><head><meta charset="utf-8"><title>Carrito</title>` +
			`<script src="https://unpkg.com/htmx.org@1.9.12"></script></head><body><div class="container">`)
		if h.err != nil {
			return h.err
		}
		if err := CatalogComponent(v.Catalog).Render(ctx, w); err != nil {
			return err
		}
		if err := CartComponent(v.Lines, v.Footer).Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</div></body></html>`)
		return h.err
	})
}

// Render draws c into a fresh buffer. Nothing is shared between calls.
func Render(ctx context.Context, c templ.Component) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
