package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/logger"
	"storefront/internal/notify"
	"storefront/internal/product"
)

// Catalog is the read side of the catalog the cart needs for stock checks.
type Catalog interface {
	Get(id string) (product.Product, error)
}

// Service is the cart engine for the single active user.
type Service interface {
	Add(ctx context.Context, p product.Product, quantity int) (Item, error)
	Remove(productID string) bool
	UpdateQuantity(ctx context.Context, productID string, quantity int) (Item, bool)
	Clear()
	Items() []Item
	Subtotal() decimal.Decimal
	ItemCount() int
	Quote() Quote
	Reconcile(ctx context.Context) []string
	Restore(ctx context.Context, items []Item) []string
}

type service struct {
	items    []Item
	catalog  Catalog
	notifier notify.Notifier
}

func NewService(catalog Catalog, notifier notify.Notifier) Service {
	return &service{catalog: catalog, notifier: notifier}
}

// Add puts quantity units of p in the cart, capped at the product's current
// stock. A quantity below 1 counts as 1.
func (s *service) Add(ctx context.Context, p product.Product, quantity int) (Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "cart"),
		zap.String("method", "Add"),
		zap.String("product_id", p.ID),
		zap.Int("quantity", quantity),
	)

	current, err := s.catalog.Get(p.ID)
	if err != nil {
		log.Warn("product not in catalog", zap.Error(err))
		return Item{}, ErrProductNotFound
	}

	idx := s.indexOf(p.ID)

	if !current.InStock() {
		if idx >= 0 {
			s.items = slices.Delete(s.items, idx, idx+1)
		}
		log.Info("product out of stock")
		return Item{}, ErrOutOfStock
	}

	quantity = max(quantity, 1)

	var item Item
	if idx >= 0 {
		item = s.items[idx]
		item.Quantity = min(item.Quantity+quantity, current.Stock)
		item.Product = current
		s.items[idx] = item
	} else {
		item = Item{
			ProductID: current.ID,
			Quantity:  min(quantity, current.Stock),
			Product:   current,
		}
		s.items = append(s.items, item)
	}

	log.Debug("cart item saved", zap.Int("final_quantity", item.Quantity), zap.Int("stock", current.Stock))

	if s.notifier != nil {
		s.notifier.Notify(ctx, fmt.Sprintf("Added %q to your cart", current.Name), notify.SeveritySuccess)
	}

	return item, nil
}

// Remove deletes the line for productID. Removing an absent line is a no-op.
func (s *service) Remove(productID string) bool {
	idx := s.indexOf(productID)
	if idx < 0 {
		return false
	}
	s.items = slices.Delete(s.items, idx, idx+1)
	return true
}

// UpdateQuantity sets the line quantity clamped to [1, current stock]. A
// quantity below 1, a deleted product or an exhausted stock removes the line.
// ok is false when no line remains for productID.
func (s *service) UpdateQuantity(ctx context.Context, productID string, quantity int) (Item, bool) {
	if quantity < 1 {
		s.Remove(productID)
		return Item{}, false
	}

	idx := s.indexOf(productID)
	if idx < 0 {
		return Item{}, false
	}

	current, err := s.catalog.Get(productID)
	if errors.Is(err, product.ErrProductNotFound) || (err == nil && !current.InStock()) {
		logger.FromCtx(ctx).Info("dropping cart item without stock",
			zap.String("layer", "cart"),
			zap.String("product_id", productID),
		)
		s.items = slices.Delete(s.items, idx, idx+1)
		return Item{}, false
	}
	if err != nil {
		return s.items[idx], true
	}

	item := s.items[idx]
	item.Quantity = min(quantity, current.Stock)
	item.Product = current
	s.items[idx] = item

	return item, true
}

func (s *service) Clear() {
	s.items = nil
}

func (s *service) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Subtotal sums quantity times the price held on each line.
func (s *service) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

func (s *service) ItemCount() int {
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *service) Quote() Quote {
	subtotal := s.Subtotal()
	shipping := FlatShippingFee
	if subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Add(shipping),
	}
}

// Reconcile re-reads every line from the catalog. Lines whose product was
// deleted or sold out are removed and their ids returned; the rest are
// clamped to current stock and get a fresh display copy.
func (s *service) Reconcile(ctx context.Context) []string {
	removed := []string{}
	kept := s.items[:0]

	for _, it := range s.items {
		current, err := s.catalog.Get(it.ProductID)
		if err != nil || !current.InStock() {
			removed = append(removed, it.ProductID)
			continue
		}
		it.Product = current
		it.Quantity = max(1, min(it.Quantity, current.Stock))
		kept = append(kept, it)
	}
	s.items = kept

	if len(removed) > 0 {
		logger.FromCtx(ctx).Info("stale cart items removed",
			zap.String("layer", "cart"),
			zap.Strings("product_ids", removed),
		)
	}

	return removed
}

// Restore replaces the cart with persisted lines, merging duplicates, then
// reconciles against the catalog.
func (s *service) Restore(ctx context.Context, items []Item) []string {
	s.items = nil
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		if it.ProductID == "" {
			it.ProductID = it.Product.ID
		}
		if idx := s.indexOf(it.ProductID); idx >= 0 {
			s.items[idx].Quantity += it.Quantity
			continue
		}
		s.items = append(s.items, it)
	}
	return s.Reconcile(ctx)
}

func (s *service) indexOf(productID string) int {
	return slices.IndexFunc(s.items, func(it Item) bool { return it.ProductID == productID })
}
