package order

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/logger"
	"storefront/internal/user"
)

const idPrefix = "ord-"

// Factory freezes cart lines into orders and records them in the ledger.
type Factory struct {
	ledger *Ledger
	now    func() time.Time
	lastID int64
}

func NewFactory(ledger *Ledger) *Factory {
	return &Factory{ledger: ledger, now: time.Now}
}

// PlaceOrder snapshots lines into a pending order for u and prepends it to
// the ledger. Product stock is left untouched. Emptying the cart is the
// caller's job once this returns without error.
func (f *Factory) PlaceOrder(
	ctx context.Context,
	lines []cart.Item,
	u *user.User,
	shippingAddress string,
) (Order, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "order"),
		zap.String("method", "PlaceOrder"),
		zap.Int("item_count", len(lines)),
	)

	if u == nil {
		log.Warn("checkout without user")
		return Order{}, ErrNotAuthenticated
	}
	if len(lines) == 0 {
		log.Warn("checkout with empty cart")
		return Order{}, ErrCartEmpty
	}

	now := f.now()

	items := make([]Item, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		items = append(items, Item{
			ProductID: line.ProductID,
			Name:      line.Product.Name,
			Price:     line.Product.Price,
			Quantity:  line.Quantity,
			Image:     line.Product.Image,
		})
		total = total.Add(line.LineTotal())
	}

	o := Order{
		ID:              f.nextID(now),
		UserID:          u.ID,
		Items:           items,
		Total:           total,
		Status:          StatusPending,
		Date:            now.UTC().Format(time.DateOnly),
		ShippingAddress: shippingAddress,
	}

	f.ledger.Append(o)

	log.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("user_id", o.UserID),
		zap.String("total", o.Total.String()),
	)

	return o, nil
}

// nextID derives the id from the clock in milliseconds, moving forward when
// the clock has not advanced or the id is already taken.
func (f *Factory) nextID(now time.Time) string {
	ms := max(now.UnixMilli(), f.lastID+1)
	for {
		id := idPrefix + strconv.FormatInt(ms, 10)
		if _, err := f.ledger.Get(id); err != nil {
			f.lastID = ms
			return id
		}
		ms++
	}
}
