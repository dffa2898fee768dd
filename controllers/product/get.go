package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/theilkerm/pf-se-cs/models"
	"gorm.io/gorm"
)

// GetProductByID returns a single product with its category, images and
// variants (including live per-variant stock).
// URL param: /products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		idParam := c.Param("id")

		var product models.Product
		if err := db.
			Preload("Category").
			Preload("Images").
			Preload("Variants").
			First(&product, "id = ?", idParam).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
