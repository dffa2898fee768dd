package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/theilkerm/pf-se-cs/auth"
	productControllers "github.com/theilkerm/pf-se-cs/controllers/product"
	reviewControllers "github.com/theilkerm/pf-se-cs/controllers/review"
	"gorm.io/gorm"
)

// SetupAuthRoutes registers the public session endpoints.
func SetupAuthRoutes(api *gin.RouterGroup, db *gorm.DB) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", auth.Register(db))
		authGroup.POST("/login", auth.Login(db))
	}
}

// SetupCatalogRoutes registers public, read-only catalog browsing.
func SetupCatalogRoutes(api *gin.RouterGroup, db *gorm.DB) {
	api.GET("/products", productControllers.GetProducts(db))
	api.GET("/products/:id", productControllers.GetProductByID(db))
	api.GET("/products/:id/reviews", reviewControllers.GetProductReviews(db))
	api.GET("/categories", productControllers.GetCategories(db))
}
