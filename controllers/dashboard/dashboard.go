package dashboardControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/theilkerm/pf-se-cs/models"
	"gorm.io/gorm"
)

type statusCount struct {
	Status models.OrderStatus `json:"status"`
	Count  int64              `json:"count"`
}

type popularProduct struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	TotalSold int64  `json:"total_sold"`
}

// GetDashboardStats aggregates the admin dashboard numbers: sales total
// over non-cancelled orders, head counts, recent orders, status
// distribution and best sellers.
// GET /admin/dashboard/stats
func GetDashboardStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var totalSales decimal.Decimal
		err := db.Model(&models.Order{}).
			Where("status <> ?", models.OrderStatusCancelled).
			Select("COALESCE(SUM(total_price), 0)").
			Scan(&totalSales).Error
		if err != nil {
			log.Error().Err(err).Msg("failed to compute total sales")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard stats"})
			return
		}

		var orderCount int64
		if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard stats"})
			return
		}

		var customerCount int64
		if err := db.Model(&models.User{}).
			Where("role = ?", models.RoleCustomer).
			Count(&customerCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard stats"})
			return
		}

		var recentOrders []models.Order
		if err := db.
			Preload("User").
			Order("created_at DESC").
			Limit(5).
			Find(&recentOrders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard stats"})
			return
		}

		var distribution []statusCount
		if err := db.Model(&models.Order{}).
			Select("status, COUNT(*) AS count").
			Group("status").
			Scan(&distribution).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard stats"})
			return
		}

		var popular []popularProduct
		if err := db.Model(&models.OrderItem{}).
			Select("order_items.product_id, MAX(order_items.name) AS name, SUM(order_items.quantity) AS total_sold").
			Group("order_items.product_id").
			Order("total_sold DESC").
			Limit(5).
			Scan(&popular).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard stats"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"total_sales":         totalSales,
			"order_count":         orderCount,
			"customer_count":      customerCount,
			"recent_orders":       recentOrders,
			"status_distribution": distribution,
			"popular_products":    popular,
		})
	}
}
