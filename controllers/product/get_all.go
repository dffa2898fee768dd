package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/theilkerm/pf-se-cs/models"
	"gorm.io/gorm"
)

// GetProducts lists active products with optional category and price
// filters plus pagination.
// Query params: category (id), price_lt, page, limit
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := 1
		limit := 20
		if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
			page = p
		}
		if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 100 {
			limit = l
		}

		query := db.Model(&models.Product{}).Where("is_active = ?", true)

		if categoryID := c.Query("category"); categoryID != "" {
			query = query.Where("category_id = ?", categoryID)
		}
		if priceLt := c.Query("price_lt"); priceLt != "" {
			if v, err := strconv.ParseFloat(priceLt, 64); err == nil {
				query = query.Where("price < ?", v)
			}
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		var products []models.Product
		if err := query.
			Preload("Category").
			Preload("Images").
			Preload("Variants").
			Offset((page - 1) * limit).
			Limit(limit).
			Order("created_at DESC").
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"total": total, "products": products})
	}
}
