package product

import "github.com/shopspring/decimal"

// LowStockThreshold marks products shown with a "few left" badge.
const LowStockThreshold = 5

type Review struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Rating   int    `json:"rating" validate:"min=1,max=5"`
	Comment  string `json:"comment"`
	Date     string `json:"date"`
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Rating      float64         `json:"rating" validate:"gte=0,lte=5"`
	Reviews     []Review        `json:"reviews" validate:"dive"`
	IsFeatured  bool            `json:"isFeatured,omitempty"`
}

// InStock reports whether at least one unit can be added to a cart.
func (p Product) InStock() bool {
	return p.Stock > 0
}

func (p Product) LowStock() bool {
	return p.Stock <= LowStockThreshold
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
}

type SortOption string

const (
	SortNewest    SortOption = "newest"
	SortPriceLow  SortOption = "price-low"
	SortPriceHigh SortOption = "price-high"
	SortRating    SortOption = "rating"
)

// Filter narrows a catalog listing. Zero values disable each criterion.
type Filter struct {
	Query    string
	Category string
	MaxPrice *decimal.Decimal
	Sort     SortOption
}
