package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/theilkerm/pf-se-cs/models"
	"gorm.io/gorm"
)

type UpdateProductInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *uint            `json:"category_id"`
	IsActive    *bool            `json:"is_active"`
}

type SetVariantStockInput struct {
	Stock *int `json:"stock" binding:"required,min=0"`
}

// UpdateProduct applies a partial update to a product's own fields.
// Variant stock has its own endpoint; order snapshots are never touched.
// PUT /admin/products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if input.Name != nil {
			product.Name = *input.Name
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.Price != nil {
			if input.Price.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
				return
			}
			product.Price = *input.Price
		}
		if input.CategoryID != nil {
			var category models.Category
			if err := db.First(&category, "id = ?", *input.CategoryID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Category does not exist"})
				return
			}
			product.CategoryID = category.ID
		}
		if input.IsActive != nil {
			product.IsActive = *input.IsActive
		}

		if err := db.Save(&product).Error; err != nil {
			log.Error().Err(err).Uint("product_id", product.ID).Msg("failed to update product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

// SetVariantStock sets a variant's stock directly (admin edit).
// PATCH /admin/variants/:id/stock
func SetVariantStock(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SetVariantStockInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var variant models.Variant
		if err := db.First(&variant, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Variant not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve variant"})
			return
		}

		variant.Stock = *input.Stock
		if err := db.Save(&variant).Error; err != nil {
			log.Error().Err(err).Uint("variant_id", variant.ID).Msg("failed to set variant stock")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update variant"})
			return
		}

		c.JSON(http.StatusOK, variant)
	}
}
