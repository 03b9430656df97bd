package product

import (
	"errors"

	"storefront/internal/validation"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
)

// InvalidProductError carries per-field validation messages and matches
// ErrInvalidProduct with errors.Is.
type InvalidProductError struct {
	Fields map[string]string
}

func (e *InvalidProductError) Error() string {
	return ErrInvalidProduct.Error() + ": " + validation.Summary(e.Fields)
}

func (e *InvalidProductError) Is(target error) bool {
	return target == ErrInvalidProduct
}
