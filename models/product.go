package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultProductImage is used for order snapshots when a product has no images.
const DefaultProductImage = "/img/default.jpg"

type Product struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CategoryID    uint            `gorm:"index" json:"category_id"`
	Category      Category        `gorm:"foreignKey:CategoryID" json:"category"`
	Images        []ProductImage  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
	AverageRating float64         `gorm:"default:0" json:"average_rating"`
	NumReviews    int             `gorm:"default:0" json:"num_reviews"`
	Variants      []Variant       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index" json:"product_id"`
	URL       string `gorm:"not null" json:"url"`
	Position  int    `json:"position"`
}

// Variant is a purchasable configuration of a product. Stock is tracked
// only here, never on the product itself. Within a product a variant is
// identified by its (type, value) pair.
type Variant struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index;uniqueIndex:idx_product_variant" json:"product_id"`
	Type      string `gorm:"uniqueIndex:idx_product_variant;not null" json:"type"`
	Value     string `gorm:"uniqueIndex:idx_product_variant;not null" json:"value"`
	Stock     int    `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
}

// VariantKey is the natural key of a variant within its product.
// Comparable with ==, so matching is structural, never by serialized form.
type VariantKey struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (v Variant) Key() VariantKey {
	return VariantKey{Type: v.Type, Value: v.Value}
}

// FindVariant returns the product's variant matching key, or nil.
func (p *Product) FindVariant(key VariantKey) *Variant {
	for i := range p.Variants {
		if p.Variants[i].Key() == key {
			return &p.Variants[i]
		}
	}
	return nil
}

// FirstImage returns the URL of the first product image, or the default
// placeholder when the product has none.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return DefaultProductImage
	}
	return p.Images[0].URL
}
