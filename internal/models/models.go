package models

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	ID                 int              `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name               string           `gorm:"not null"                  json:"name"`
	Description        string           `gorm:"not null"                  json:"description"`
	Price              decimal.Decimal  `gorm:"type:numeric(10,2);not null" json:"price"`
	ImageURL           string           `gorm:"not null"                  json:"imageUrl"`
	DiscountPercentage *int             `json:"discountPercentage"`
	Protein            *decimal.Decimal `gorm:"type:numeric(5,2)"         json:"protein"`
	Fat                *decimal.Decimal `gorm:"type:numeric(5,2)"         json:"fat"`
	Carbohydrates      *decimal.Decimal `gorm:"type:numeric(5,2)"         json:"carbohydrates"`
}

// EffectivePrice is the unit price after the discount percentage, if any.
func (p Product) EffectivePrice() decimal.Decimal {
	return DiscountedPrice(p.Price, p.DiscountPercentage)
}

func DiscountedPrice(price decimal.Decimal, discountPercentage *int) decimal.Decimal {
	if discountPercentage == nil || *discountPercentage == 0 {
		return price
	}
	pct := decimal.NewFromInt(int64(100 - *discountPercentage))
	return price.Mul(pct).Div(decimal.NewFromInt(100))
}

type User struct {
	ID           int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	IsAdmin      bool   `gorm:"not null;default:false"   json:"isAdmin"`
}
