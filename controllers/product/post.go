package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/theilkerm/pf-se-cs/models"
	"gorm.io/gorm"
)

type VariantInput struct {
	Type  string `json:"type" binding:"required"`
	Value string `json:"value" binding:"required"`
	Stock int    `json:"stock" binding:"min=0"`
}

type CreateProductInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	CategoryID  uint            `json:"category_id" binding:"required"`
	Images      []string        `json:"images"`
	Variants    []VariantInput  `json:"variants"`
	Stock       int             `json:"stock" binding:"min=0"` // used for the default variant when no variants are given
}

// CreateProduct creates a new product with its variants.
// Products without a real variant axis get a single Default/Standard
// variant, since stock is tracked only at variant granularity.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
			return
		}

		var category models.Category
		if err := db.First(&category, "id = ?", input.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category does not exist"})
			return
		}

		variants := make([]models.Variant, 0, len(input.Variants))
		for _, v := range input.Variants {
			variants = append(variants, models.Variant{Type: v.Type, Value: v.Value, Stock: v.Stock})
		}
		if len(variants) == 0 {
			variants = append(variants, models.Variant{Type: "Default", Value: "Standard", Stock: input.Stock})
		}

		images := make([]models.ProductImage, 0, len(input.Images))
		for i, url := range input.Images {
			images = append(images, models.ProductImage{URL: url, Position: i})
		}

		product := models.Product{
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			CategoryID:  category.ID,
			Images:      images,
			IsActive:    true,
			Variants:    variants,
		}

		if err := db.Create(&product).Error; err != nil {
			log.Error().Err(err).Msg("failed to create product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}
