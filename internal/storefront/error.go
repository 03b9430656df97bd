package storefront

import (
	"errors"

	"storefront/internal/order"
	"storefront/internal/validation"
)

var (
	// -- Auth --
	ErrNotAuthenticated = order.ErrNotAuthenticated
	ErrForbidden        = errors.New("admin role required")

	// -- Checkout --
	ErrInvalidShipping = errors.New("invalid shipping details")
)

// InvalidShippingError carries per-field messages and matches
// ErrInvalidShipping with errors.Is.
type InvalidShippingError struct {
	Fields map[string]string
}

func (e *InvalidShippingError) Error() string {
	return ErrInvalidShipping.Error() + ": " + validation.Summary(e.Fields)
}

func (e *InvalidShippingError) Is(target error) bool {
	return target == ErrInvalidShipping
}
