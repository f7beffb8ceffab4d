package storage

import (
	"github.com/shopspring/decimal"

	"github.com/nutrimart/storefront/internal/models"
	"github.com/nutrimart/storefront/pkg/hash"
)

func intPtr(v int) *int { return &v }

// SeedProducts is the initial catalog for an empty store.
func SeedProducts() []models.Product {
	return []models.Product{
		{
			Name:               "Premium Watch",
			Description:        "Elegant timepiece for any occasion",
			Price:              decimal.RequireFromString("299.99"),
			ImageURL:           "https://images.unsplash.com/photo-1523275335684-37898b6baf30",
			DiscountPercentage: intPtr(15),
		},
		{
			Name:        "Wireless Headphones",
			Description: "Premium sound quality with noise cancellation",
			Price:       decimal.RequireFromString("199.99"),
			ImageURL:    "https://images.unsplash.com/photo-1505740420928-5e560c06d30e",
		},
	}
}

// SeedAdmin is the initial admin account for an empty store.
func SeedAdmin() (models.User, error) {
	pwHash, err := hash.HashPassword("admin")
	if err != nil {
		return models.User{}, err
	}
	return models.User{
		Username:     "admin",
		PasswordHash: pwHash,
		IsAdmin:      true,
	}, nil
}
