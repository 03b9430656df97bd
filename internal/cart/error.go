package cart

import "errors"

var (
	// -- Resource State --
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product out of stock")
)
