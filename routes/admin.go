package routes

import (
	"github.com/gin-gonic/gin"
	dashboardControllers "github.com/theilkerm/pf-se-cs/controllers/dashboard"
	productControllers "github.com/theilkerm/pf-se-cs/controllers/product"
	reviewControllers "github.com/theilkerm/pf-se-cs/controllers/review"
	"github.com/theilkerm/pf-se-cs/middleware"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers catalog management and reporting endpoints.
// Requires a valid JWT with the admin role.
func SetupAdminRoutes(api *gin.RouterGroup, db *gorm.DB) {
	admin := api.Group("/admin")
	admin.Use(middleware.ValidateToken, middleware.RequireAdmin)
	{
		admin.POST("/products", productControllers.CreateProduct(db))
		admin.PUT("/products/:id", productControllers.UpdateProduct(db))
		admin.DELETE("/products/:id", productControllers.DeleteProduct(db))
		admin.GET("/products/export", productControllers.ExportProductsToExcel(db))

		admin.PATCH("/variants/:id/stock", productControllers.SetVariantStock(db))

		admin.PATCH("/reviews/:id/approve", reviewControllers.ApproveReview(db))

		admin.POST("/categories", productControllers.CreateCategory(db))
		admin.PUT("/categories/:id", productControllers.UpdateCategory(db))
		admin.DELETE("/categories/:id", productControllers.DeleteCategory(db))

		admin.GET("/dashboard/stats", dashboardControllers.GetDashboardStats(db))
	}
}
