package persistence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fjod/go_cart/cart-widget/internal/domain"
)

type record struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Precio   price  `json:"precio"`
	Cantidad int    `json:"cantidad"`
}

// price accepts a JSON number or a numeric string; older snapshots stored
// the price exactly as it was displayed.
type price float64

func (p *price) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("precio %q is not a number", s)
		}
		*p = price(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*p = price(f)
	return nil
}

// encode writes the cart as {"<id>": record, ...} keeping line order.
func encode(lines []domain.CartLine) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, l := range lines {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(l.ID)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(record{
			ID:       l.ID,
			Title:    l.Title,
			Precio:   price(l.Price),
			Cantidad: l.Quantity,
		})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decode(data []byte) ([]domain.CartLine, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("cart is not a JSON object")
	}

	var lines []domain.CartLine
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := tok.(string)

		var rec record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("line %q: %w", key, err)
		}
		if rec.ID == "" {
			rec.ID = key
		}
		if rec.ID != key {
			return nil, fmt.Errorf("line %q carries id %q", key, rec.ID)
		}
		if rec.Cantidad < 1 {
			return nil, fmt.Errorf("line %q has cantidad %d", key, rec.Cantidad)
		}
		if seen[key] {
			return nil, fmt.Errorf("line %q appears twice", key)
		}
		seen[key] = true

		lines = append(lines, domain.CartLine{
			ID:       rec.ID,
			Title:    rec.Title,
			Price:    float64(rec.Precio),
			Quantity: rec.Cantidad,
		})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after cart object")
	}
	return lines, nil
}
