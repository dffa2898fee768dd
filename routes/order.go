package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/theilkerm/pf-se-cs/controllers/order"
	"github.com/theilkerm/pf-se-cs/middleware"
	"gorm.io/gorm"
)

// SetupOrderRoutes registers checkout and order history endpoints.
func SetupOrderRoutes(api *gin.RouterGroup, db *gorm.DB) {
	orders := api.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		orders.POST("", orderControllers.PlaceOrderHandler(db))          // POST /orders (checkout)
		orders.GET("/my-orders", orderControllers.GetMyOrdersHandler(db)) // GET /orders/my-orders
		orders.GET("/:id", orderControllers.GetOrderByIDHandler(db))      // GET /orders/:id

		// Admin-only order management
		orders.GET("", middleware.RequireAdmin, orderControllers.GetAllOrdersHandler(db))
		orders.PATCH("/:id/status", middleware.RequireAdmin, orderControllers.UpdateOrderStatusHandler(db))
		orders.GET("/ws", middleware.RequireAdmin, orderControllers.OrderEventsHandler)
	}
}
