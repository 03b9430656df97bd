package order

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/cart"
	"storefront/internal/product"
	"storefront/internal/user"
)

func line(id string, price int64, qty int) cart.Item {
	return cart.Item{
		ProductID: id,
		Quantity:  qty,
		Product: product.Product{
			ID:    id,
			Name:  "Product " + id,
			Price: decimal.NewFromInt(price),
			Image: "img-" + id,
			Stock: 10,
		},
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestFactory_PlaceOrder(t *testing.T) {
	ctx := context.Background()
	customer := user.MockCustomer
	now := time.Date(2024, 3, 9, 23, 59, 1, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		ledger := NewLedger(nil)
		f := NewFactory(ledger)
		f.now = fixedClock(now)

		o, err := f.PlaceOrder(ctx, []cart.Item{line("p1", 100, 2), line("p2", 50, 1)}, &customer, "1 Main St, Riyadh")

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(250).Equal(o.Total))
		assert.Equal(t, StatusPending, o.Status)
		assert.Len(t, o.Items, 2)
		assert.Equal(t, "u2", o.UserID)
		assert.Equal(t, "2024-03-09", o.Date)
		assert.Equal(t, "1 Main St, Riyadh", o.ShippingAddress)
		assert.Equal(t, "ord-1710028741000", o.ID)

		assert.Equal(t, Item{
			ProductID: "p1",
			Name:      "Product p1",
			Price:     decimal.NewFromInt(100),
			Quantity:  2,
			Image:     "img-p1",
		}, o.Items[0])

		assert.Equal(t, 1, ledger.Len())
	})

	t.Run("Success - date is the UTC calendar day", func(t *testing.T) {
		f := NewFactory(NewLedger(nil))
		f.now = fixedClock(time.Date(2024, 3, 10, 1, 30, 0, 0, time.FixedZone("AST", 3*60*60)))

		o, err := f.PlaceOrder(ctx, []cart.Item{line("p1", 10, 1)}, &customer, "a")

		require.NoError(t, err)
		assert.Equal(t, "2024-03-09", o.Date)
	})

	t.Run("Newest order goes first", func(t *testing.T) {
		ledger := NewLedger(nil)
		f := NewFactory(ledger)
		f.now = fixedClock(now)

		first, _ := f.PlaceOrder(ctx, []cart.Item{line("p1", 10, 1)}, &customer, "a")
		second, _ := f.PlaceOrder(ctx, []cart.Item{line("p2", 10, 1)}, &customer, "b")

		all := ledger.All()
		require.Len(t, all, 2)
		assert.Equal(t, second.ID, all[0].ID)
		assert.Equal(t, first.ID, all[1].ID)
	})

	t.Run("Ids stay unique within the same millisecond", func(t *testing.T) {
		ledger := NewLedger([]Order{{ID: "ord-1710028741001"}})
		f := NewFactory(ledger)
		f.now = fixedClock(now)

		seen := map[string]bool{}
		for i := 0; i < 5; i++ {
			o, err := f.PlaceOrder(ctx, []cart.Item{line("p1", 10, 1)}, &customer, "a")
			require.NoError(t, err)
			assert.False(t, seen[o.ID], o.ID)
			seen[o.ID] = true
		}
		assert.False(t, seen["ord-1710028741001"])
	})

	t.Run("Snapshot is immune to later product edits", func(t *testing.T) {
		ledger := NewLedger(nil)
		f := NewFactory(ledger)
		lines := []cart.Item{line("p1", 100, 1)}

		o, err := f.PlaceOrder(ctx, lines, &customer, "a")
		require.NoError(t, err)

		lines[0].Product.Price = decimal.NewFromInt(1)
		lines[0].Product.Name = "Renamed"

		stored, err := ledger.Get(o.ID)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(100).Equal(stored.Items[0].Price))
		assert.Equal(t, "Product p1", stored.Items[0].Name)
	})

	t.Run("Error - Not Authenticated", func(t *testing.T) {
		ledger := NewLedger(nil)
		f := NewFactory(ledger)

		_, err := f.PlaceOrder(ctx, []cart.Item{line("p1", 10, 1)}, nil, "a")

		assert.ErrorIs(t, err, ErrNotAuthenticated)
		assert.Equal(t, 0, ledger.Len())
	})

	t.Run("Error - Cart Empty", func(t *testing.T) {
		ledger := NewLedger(nil)
		f := NewFactory(ledger)

		_, err := f.PlaceOrder(ctx, nil, &customer, "a")

		assert.ErrorIs(t, err, ErrCartEmpty)
		assert.Equal(t, 0, ledger.Len())
	})
}
