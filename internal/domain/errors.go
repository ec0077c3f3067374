package domain

import "errors"

var (
	// ErrFetch means the catalog source could not be read or parsed.
	ErrFetch = errors.New("catalog unavailable")
	// ErrCorruptState means the persisted cart is not well-formed.
	ErrCorruptState = errors.New("persisted cart is corrupt")
	// ErrNotFound means increment/decrement targeted an id that is not in the cart.
	ErrNotFound = errors.New("cart line not found")
)
