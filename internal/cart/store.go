package cart

import (
	"fmt"
	"slices"
	"sync"

	"github.com/fjod/go_cart/cart-widget/internal/domain"
)

// Store owns the cart: product id -> cart line, in insertion order.
// Every line it holds has Quantity >= 1.
type Store struct {
	mu    sync.RWMutex
	order []string
	lines map[string]*domain.CartLine
}

func NewStore() *Store {
	return &Store{
		lines: make(map[string]*domain.CartLine),
	}
}

// Add puts one unit of the product in the cart. Title and price are only
// captured the first time the id is seen.
func (s *Store) Add(id, title string, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if line, exists := s.lines[id]; exists {
		line.Quantity++
		return
	}

	s.lines[id] = &domain.CartLine{
		ID:       id,
		Title:    title,
		Price:    price,
		Quantity: 1,
	}
	s.order = append(s.order, id)
}

func (s *Store) Increment(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, exists := s.lines[id]
	if !exists {
		return fmt.Errorf("increment %q: %w", id, domain.ErrNotFound)
	}
	line.Quantity++
	return nil
}

// Decrement removes one unit; the line is deleted when it reaches zero.
func (s *Store) Decrement(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, exists := s.lines[id]
	if !exists {
		return fmt.Errorf("decrement %q: %w", id, domain.ErrNotFound)
	}

	line.Quantity--
	if line.Quantity == 0 {
		s.remove(id)
	}
	return nil
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = nil
	s.lines = make(map[string]*domain.CartLine)
}

// Snapshot returns copies of all lines in insertion order.
func (s *Store) Snapshot() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CartLine, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.lines[id])
	}
	return out
}

// Quantity reports the quantity held for id, 0 when absent.
func (s *Store) Quantity(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if line, exists := s.lines[id]; exists {
		return line.Quantity
	}
	return 0
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Replace swaps the whole cart for lines, e.g. when hydrating from storage.
// The cart is left untouched if any line is invalid.
func (s *Store) Replace(lines []domain.CartLine) error {
	order := make([]string, 0, len(lines))
	byID := make(map[string]*domain.CartLine, len(lines))

	for _, l := range lines {
		if l.ID == "" {
			return fmt.Errorf("line without id: %w", domain.ErrCorruptState)
		}
		if l.Quantity < 1 {
			return fmt.Errorf("line %q has quantity %d: %w", l.ID, l.Quantity, domain.ErrCorruptState)
		}
		if _, dup := byID[l.ID]; dup {
			return fmt.Errorf("duplicate line %q: %w", l.ID, domain.ErrCorruptState)
		}
		line := l
		byID[l.ID] = &line
		order = append(order, l.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = order
	s.lines = byID
	return nil
}

func (s *Store) remove(id string) {
	delete(s.lines, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}
