package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/theilkerm/pf-se-cs/models"
	"gorm.io/gorm"
)

// DeleteProduct removes a product together with its dependent rows.
// Reviews cascade with the product; existing order snapshots keep their
// copied name/price/image and are not affected.
// DELETE /admin/products/:id
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID := c.Param("id")

		var product models.Product
		if err := db.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.Review{}).Error; err != nil {
				return err
			}
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.Variant{}).Error; err != nil {
				return err
			}
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
				return err
			}
			return tx.Delete(&product).Error
		})
		if err != nil {
			log.Error().Err(err).Uint("product_id", product.ID).Msg("failed to delete product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
