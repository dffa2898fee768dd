package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/theilkerm/pf-se-cs/controllers/cart"
	reviewControllers "github.com/theilkerm/pf-se-cs/controllers/review"
	userControllers "github.com/theilkerm/pf-se-cs/controllers/user"
	"github.com/theilkerm/pf-se-cs/middleware"
	"gorm.io/gorm"
)

// SetupUserRoutes registers cart, profile and review endpoints.
// Requires a valid JWT.
func SetupUserRoutes(api *gin.RouterGroup, db *gorm.DB) {
	group := api.Group("")
	group.Use(middleware.ValidateToken)
	{
		cartGroup := group.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetUserCart(db))                    // GET /cart
			cartGroup.POST("", cartControllers.AddCartItem(db))                   // POST /cart
			cartGroup.PATCH("", cartControllers.UpdateCartItem(db))               // PATCH /cart
			cartGroup.DELETE("/:cartLineId", cartControllers.DeleteCartItem(db))  // DELETE /cart/:cartLineId
			cartGroup.DELETE("", cartControllers.ClearUserCart(db))               // DELETE /cart
		}

		group.GET("/users/me", userControllers.GetMe(db))
		group.PUT("/users/me", userControllers.UpdateMe(db))

		group.POST("/reviews", reviewControllers.CreateReview(db))
	}
}
