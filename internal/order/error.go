package order

import "errors"

var (
	// -- Authentication/Authorization --
	ErrNotAuthenticated = errors.New("not authenticated")

	// -- Validation & Input --
	ErrCartEmpty     = errors.New("cart is empty")
	ErrInvalidStatus = errors.New("invalid order status")

	// -- Resource State --
	ErrOrderNotFound = errors.New("order not found")
)
