package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    string     `gorm:"uniqueIndex" json:"user_id"` // Enforces ONE cart per user
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is one line of a user's cart. The composite unique index makes
// (cart, product, variant type, variant value) the line's natural key, so
// the same product+variant can never appear twice in a cart. Price is
// captured when the line is created and is what gets charged at checkout,
// regardless of later product price changes.
type CartItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	CartID       uint            `gorm:"index;uniqueIndex:idx_cart_line" json:"cart_id"`
	ProductID    uint            `gorm:"uniqueIndex:idx_cart_line" json:"product_id"`
	Product      Product         `gorm:"foreignKey:ProductID" json:"product"`
	VariantType  string          `gorm:"uniqueIndex:idx_cart_line;not null" json:"variant_type"`
	VariantValue string          `gorm:"uniqueIndex:idx_cart_line;not null" json:"variant_value"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	AddedAt      time.Time       `gorm:"autoCreateTime" json:"added_at"`
}

func (i CartItem) VariantKey() VariantKey {
	return VariantKey{Type: i.VariantType, Value: i.VariantValue}
}
