package storefront

import (
	"strings"

	"storefront/internal/cart"
)

// Target is a screen the presentation layer should move to after an
// operation. The core never navigates itself.
type Target string

const (
	TargetNone    Target = ""
	TargetHome    Target = "home"
	TargetLogin   Target = "login"
	TargetProfile Target = "profile"
)

// CartView is a consistent read of the cart lines and their totals.
type CartView struct {
	Items []cart.Item `json:"items"`
	Quote cart.Quote  `json:"quote"`
	Count int         `json:"count"`
}

// ShippingDetails is the checkout form.
type ShippingDetails struct {
	Street string `json:"street" validate:"required"`
	City   string `json:"city" validate:"required"`
	Phone  string `json:"phone" validate:"required,phone"`
}

// Address is the free-text shipping address stored on the order.
func (d ShippingDetails) Address() string {
	return strings.TrimSpace(d.Street) + ", " + strings.TrimSpace(d.City)
}

// Recorder receives domain counters. *metrics.Metrics satisfies it.
type Recorder interface {
	CartAdded()
	OrderPlaced(total float64)
	StatusUpdated(status string)
}

type noopRecorder struct{}

func (noopRecorder) CartAdded()           {}
func (noopRecorder) OrderPlaced(float64)  {}
func (noopRecorder) StatusUpdated(string) {}
