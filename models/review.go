package models

import "time"

// Review belongs to a product and its author; one review per user per
// product, enforced by the composite unique index. Reviews start out
// unapproved: only approved ones are listed publicly or counted into the
// product's aggregate rating.
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProductID  uint      `gorm:"index;uniqueIndex:idx_user_product_review" json:"product_id"`
	UserID     string    `gorm:"uniqueIndex:idx_user_product_review;not null" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    string    `json:"comment"`
	IsApproved bool      `gorm:"default:false" json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}
