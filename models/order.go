package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"    // Order placed, awaiting fulfilment
	OrderStatusProcessing OrderStatus = "Processing" // Being prepared
	OrderStatusShipped    OrderStatus = "Shipped"    // Out for delivery
	OrderStatusDelivered  OrderStatus = "Delivered"  // Customer received the items
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

var ErrInvalidOrderStatus = errors.New("invalid order status")

// ParseOrderStatus maps a client-supplied status string onto the closed
// enumeration, case-insensitively.
func ParseOrderStatus(status string) (OrderStatus, error) {
	for _, s := range []OrderStatus{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	} {
		if strings.EqualFold(status, string(s)) {
			return s, nil
		}
	}
	return "", ErrInvalidOrderStatus
}

// Order is an immutable purchase snapshot. After creation only Status and
// DeliveredAt may change, via the admin status transition.
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Ref             string          `gorm:"uniqueIndex;not null" json:"ref"`
	UserID          string          `gorm:"not null;index" json:"user_id"`
	User            User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	ShippingAddress Address         `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	Status          OrderStatus     `gorm:"type:varchar(20);default:'Pending'" json:"status"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

type OrderItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	OrderID      uint            `gorm:"index" json:"order_id"`
	ProductID    uint            `json:"product_id"`
	Name         string          `gorm:"not null" json:"name"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Image        string          `json:"image"`
	VariantType  string          `json:"variant_type"`
	VariantValue string          `json:"variant_value"`
}

func (i OrderItem) VariantKey() VariantKey {
	return VariantKey{Type: i.VariantType, Value: i.VariantValue}
}

// OrderItemsTotal is the exact sum of price x quantity over the items.
// Computed once at checkout and never recomputed afterwards.
func OrderItemsTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
