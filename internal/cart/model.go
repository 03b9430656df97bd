package cart

import (
	"github.com/shopspring/decimal"

	"storefront/internal/product"
)

// Item is one cart line. Product is a display copy taken from the catalog;
// stock decisions always re-read the catalog.
type Item struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Product   product.Product `json:"product"`
}

func (i Item) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// AtStockLimit reports whether the line already holds every unit in stock.
func (i Item) AtStockLimit() bool {
	return i.Quantity >= i.Product.Stock
}

// Quote is the cart page summary. Orders record only the subtotal.
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

var (
	FreeShippingThreshold = decimal.NewFromInt(500)
	FlatShippingFee       = decimal.NewFromInt(35)
)
