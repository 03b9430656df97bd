package order

import "github.com/shopspring/decimal"

// SeedOrders is the order history shown until persisted orders exist.
func SeedOrders() []Order {
	return []Order{
		{
			ID:     "ord1",
			UserID: "u2",
			Items: []Item{
				{ProductID: "p1", Name: "Smart Watch Pro", Price: decimal.NewFromInt(299), Quantity: 1, Image: "https://picsum.photos/500/500?random=10"},
			},
			Total:           decimal.NewFromInt(299),
			Status:          StatusDelivered,
			Date:            "2023-09-15",
			ShippingAddress: "Riyadh, Saudi Arabia",
		},
		{
			ID:     "ord2",
			UserID: "u2",
			Items: []Item{
				{ProductID: "p3", Name: "Leather Backpack", Price: decimal.NewFromInt(85), Quantity: 2, Image: "https://picsum.photos/500/500?random=12"},
			},
			Total:           decimal.NewFromInt(170),
			Status:          StatusProcessing,
			Date:            "2023-11-20",
			ShippingAddress: "Jeddah, Saudi Arabia",
		},
	}
}
