// Package errs defines the error classes the order engine surfaces to its
// callers. Endpoints map these to HTTP statuses; anything else is treated as
// a system failure and rolls the whole operation back.
package errs

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a referenced entity (cart item, promotion code, order)
// that does not exist.
var ErrNotFound = errors.New("not found")

// NotFound wraps ErrNotFound with the missing entity's name.
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// ValidationError marks malformed input caught before the transactional core.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StockError aborts a checkout because a product is inactive or short on
// stock. Issue carries the human-readable reason.
type StockError struct {
	ProductID   int64
	ProductName string
	Issue       string
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%s (product %d %q)", e.Issue, e.ProductID, e.ProductName)
}

// PromotionError is a promotion-evaluation rejection. At checkout it is a
// hard failure; at pre-checkout the caller reports it softly instead of
// surfacing this type.
type PromotionError struct {
	Message string
}

func (e *PromotionError) Error() string {
	return e.Message
}
