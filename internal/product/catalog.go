package product

import (
	"cmp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"storefront/internal/validation"
)

// Catalog is the authoritative list of products at any instant. It is not
// safe for concurrent use; the storefront controller serialises access.
type Catalog struct {
	products   []Product
	categories []Category
	validate   *validator.Validate
	newID      func() string
}

func NewCatalog(products []Product, categories []Category) *Catalog {
	c := &Catalog{
		categories: slices.Clone(categories),
		validate:   validation.New(),
		newID:      func() string { return "p-" + uuid.NewString() },
	}
	c.Replace(products)
	return c
}

// Replace swaps the whole product list, used when restoring persisted state.
func (c *Catalog) Replace(products []Product) {
	c.products = make([]Product, 0, len(products))
	for _, p := range products {
		c.products = append(c.products, p.clone())
	}
}

func (c *Catalog) List() []Product {
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p.clone())
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.products)
}

func (c *Catalog) Get(id string) (Product, error) {
	i := c.indexOf(id)
	if i < 0 {
		return Product{}, ErrProductNotFound
	}
	return c.products[i].clone(), nil
}

func (c *Catalog) Featured() []Product {
	out := []Product{}
	for _, p := range c.products {
		if p.IsFeatured {
			out = append(out, p.clone())
		}
	}
	return out
}

func (c *Catalog) Categories() []Category {
	return slices.Clone(c.categories)
}

// Search applies f in the order the listing page does: text, category,
// price ceiling, then a stable sort.
func (c *Catalog) Search(f Filter) []Product {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := []Product{}
	for _, p := range c.products {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		out = append(out, p.clone())
	}

	switch f.Sort {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b Product) int { return b.Price.Cmp(a.Price) })
	case SortRating:
		slices.SortStableFunc(out, func(a, b Product) int { return cmp.Compare(b.Rating, a.Rating) })
	}

	return out
}

// Upsert replaces the product with the same id wholesale, or inserts p under
// a fresh id with no reviews and a zero rating.
func (c *Catalog) Upsert(p Product) (Product, error) {
	if err := c.validate.Struct(p); err != nil {
		return Product{}, &InvalidProductError{Fields: validation.Details(err)}
	}

	if i := c.indexOf(p.ID); p.ID != "" && i >= 0 {
		c.products[i] = p.clone()
		return p.clone(), nil
	}

	p.ID = c.newID()
	p.Reviews = []Review{}
	p.Rating = 0
	c.products = append(c.products, p.clone())
	return p.clone(), nil
}

// Delete removes the product. Carts and placed orders keep their own copies.
func (c *Catalog) Delete(id string) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.products = slices.Delete(c.products, i, i+1)
	return true
}

func (c *Catalog) indexOf(id string) int {
	return slices.IndexFunc(c.products, func(p Product) bool { return p.ID == id })
}

func (p Product) clone() Product {
	if p.Reviews != nil {
		p.Reviews = slices.Clone(p.Reviews)
	} else {
		p.Reviews = []Review{}
	}
	return p
}
