package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"github.com/theilkerm/pf-se-cs/models"
	"gorm.io/gorm"
)

// ExportProductsToExcel streams the catalog as an xlsx download, one row
// per variant so stock is visible at the granularity it is tracked.
// GET /admin/products/export
func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Preload("Category").Preload("Variants").Order("id").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ProductID", "Name", "Category", "Price", "Active",
			"VariantType", "VariantValue", "Stock",
			"AverageRating", "NumReviews", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			for _, v := range p.Variants {
				row := sheet.AddRow()
				row.AddCell().SetValue(p.ID)
				row.AddCell().SetValue(p.Name)
				row.AddCell().SetValue(p.Category.Name)
				row.AddCell().SetValue(p.Price.String())
				row.AddCell().SetValue(p.IsActive)
				row.AddCell().SetValue(v.Type)
				row.AddCell().SetValue(v.Value)
				row.AddCell().SetValue(v.Stock)
				row.AddCell().SetValue(p.AverageRating)
				row.AddCell().SetValue(p.NumReviews)
				row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
			}
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
