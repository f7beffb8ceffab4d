package transport

import (
	"github.com/shopspring/decimal"

	"github.com/nutrimart/storefront/internal/cart"
)

type CreateProductRequest struct {
	Name               string           `json:"name"               validate:"required"`
	Description        string           `json:"description"        validate:"required"`
	Price              *decimal.Decimal `json:"price"              validate:"-"`
	ImageURL           string           `json:"imageUrl"           validate:"required"`
	DiscountPercentage *int             `json:"discountPercentage" validate:"omitempty,gte=0,lte=100"`
	Protein            *decimal.Decimal `json:"protein"            validate:"-"`
	Fat                *decimal.Decimal `json:"fat"                validate:"-"`
	Carbohydrates      *decimal.Decimal `json:"carbohydrates"      validate:"-"`
}

type PatchProductRequest struct {
	Name               *string          `json:"name"               validate:"omitempty,min=1"`
	Description        *string          `json:"description"        validate:"omitempty,min=1"`
	Price              *decimal.Decimal `json:"price"              validate:"-"`
	ImageURL           *string          `json:"imageUrl"           validate:"omitempty,min=1"`
	DiscountPercentage *int             `json:"discountPercentage" validate:"omitempty,gte=0,lte=100"`
	Protein            *decimal.Decimal `json:"protein"            validate:"-"`
	Fat                *decimal.Decimal `json:"fat"                validate:"-"`
	Carbohydrates      *decimal.Decimal `json:"carbohydrates"      validate:"-"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AddToCartRequest struct {
	ProductID int `json:"productId"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type CheckoutRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

type CartItemResponse struct {
	ProductID          int    `json:"productId"`
	Name               string `json:"name"`
	ImageURL           string `json:"imageUrl"`
	UnitPrice          string `json:"unitPrice"`
	DiscountPercentage *int   `json:"discountPercentage,omitempty"`
	EffectivePrice     string `json:"effectivePrice"`
	Quantity           int    `json:"quantity"`
	LineTotal          string `json:"lineTotal"`
}

type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	Total     string             `json:"total"`
	ItemCount int                `json:"itemCount"`
}

// NewCartResponse renders a cart summary with all monetary values fixed to
// two decimal places.
func NewCartResponse(s cart.Summary) CartResponse {
	items := make([]CartItemResponse, len(s.Items))
	for i, it := range s.Items {
		items[i] = CartItemResponse{
			ProductID:          it.ProductID,
			Name:               it.Name,
			ImageURL:           it.ImageURL,
			UnitPrice:          it.UnitPrice.StringFixed(2),
			DiscountPercentage: it.DiscountPercentage,
			EffectivePrice:     it.EffectivePrice().StringFixed(2),
			Quantity:           it.Quantity,
			LineTotal:          it.LineTotal().StringFixed(2),
		}
	}
	return CartResponse{
		Items:     items,
		Total:     s.Total.StringFixed(2),
		ItemCount: s.ItemCount,
	}
}

type CheckoutResponse struct {
	OrderRef      string `json:"orderRef"`
	PaymentMethod string `json:"paymentMethod"`
	Subtotal      string `json:"subtotal"`
	DeliveryFee   string `json:"deliveryFee"`
	Total         string `json:"total"`
	Status        string `json:"status"`
}
