package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/nutrimart/storefront/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// ProductPatch carries a partial update; nil fields are left unchanged.
type ProductPatch struct {
	Name               *string
	Description        *string
	Price              *decimal.Decimal
	ImageURL           *string
	DiscountPercentage *int
	Protein            *decimal.Decimal
	Fat                *decimal.Decimal
	Carbohydrates      *decimal.Decimal
}

func (p ProductPatch) Apply(prod *models.Product) {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.ImageURL != nil {
		prod.ImageURL = *p.ImageURL
	}
	if p.DiscountPercentage != nil {
		prod.DiscountPercentage = p.DiscountPercentage
	}
	if p.Protein != nil {
		prod.Protein = p.Protein
	}
	if p.Fat != nil {
		prod.Fat = p.Fat
	}
	if p.Carbohydrates != nil {
		prod.Carbohydrates = p.Carbohydrates
	}
}

// Store is the catalog and user persistence capability set. Two
// implementations exist: an in-memory map store and a gorm-backed store,
// selected at startup.
type Store interface {
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, prod *models.Product) error
	PatchProduct(ctx context.Context, id int, patch ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int) error

	GetUser(ctx context.Context, id int) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}
