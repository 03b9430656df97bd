package product

import "github.com/shopspring/decimal"

// SeedCategories is the fixed category list offered by the store.
func SeedCategories() []Category {
	return []Category{
		{ID: "1", Name: "Electronics", Slug: "electronics", Image: "https://picsum.photos/400/300?random=1"},
		{ID: "2", Name: "Fashion", Slug: "fashion", Image: "https://picsum.photos/400/300?random=2"},
		{ID: "3", Name: "Home & Kitchen", Slug: "home", Image: "https://picsum.photos/400/300?random=3"},
		{ID: "4", Name: "Beauty & Care", Slug: "beauty", Image: "https://picsum.photos/400/300?random=4"},
	}
}

// SeedProducts is the catalog used until persisted products exist.
func SeedProducts() []Product {
	return []Product{
		{
			ID:          "p1",
			Name:        "Smart Watch Pro",
			Description: "Advanced smart watch with activity and heart rate tracking.",
			Price:       decimal.NewFromInt(299),
			Category:    "electronics",
			Image:       "https://picsum.photos/500/500?random=10",
			Stock:       15,
			Rating:      4.5,
			IsFeatured:  true,
			Reviews: []Review{
				{ID: "r1", UserID: "u2", UserName: "Ahmed Ali", Rating: 5, Comment: "Great product!", Date: "2023-10-01"},
			},
		},
		{
			ID:          "p2",
			Name:        "Wireless Headphones",
			Description: "High quality headphones with noise cancelling.",
			Price:       decimal.NewFromInt(150),
			Category:    "electronics",
			Image:       "https://picsum.photos/500/500?random=11",
			Stock:       20,
			Rating:      4.8,
			IsFeatured:  true,
			Reviews:     []Review{},
		},
		{
			ID:          "p3",
			Name:        "Leather Backpack",
			Description: "Elegant backpack made of genuine leather.",
			Price:       decimal.NewFromInt(85),
			Category:    "fashion",
			Image:       "https://picsum.photos/500/500?random=12",
			Stock:       10,
			Rating:      4.2,
			Reviews:     []Review{},
		},
		{
			ID:          "p4",
			Name:        "Electric Blender",
			Description: "Powerful blender for fresh juice in seconds.",
			Price:       decimal.NewFromInt(120),
			Category:    "home",
			Image:       "https://picsum.photos/500/500?random=13",
			Stock:       8,
			Rating:      4.0,
			Reviews:     []Review{},
		},
	}
}
