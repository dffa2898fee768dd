package orderControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/theilkerm/pf-se-cs/inventory"
	"github.com/theilkerm/pf-se-cs/models"
	"gorm.io/gorm"
)

// -------- Request Structs --------

type ShippingAddressInput struct {
	Street  string `json:"street" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	ZipCode string `json:"zip_code" binding:"required"`
	Country string `json:"country" binding:"required"`
}

type PlaceOrderInput struct {
	ShippingAddress *ShippingAddressInput `json:"shipping_address" binding:"required"`
}

type UpdateOrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// -------- Helpers --------

// generateOrderRef produces a unique, human-opaque order reference.
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

func callerID(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// -------- Core Logic --------

// PlaceOrder converts the user's cart into an order. Every line is
// re-validated against live stock, the order is written, each variant's
// stock is decremented with a guard, and the cart is emptied — all inside
// one transaction, so a guarded decrement that comes up short rolls the
// whole attempt back and no half-placed order is ever visible.
func PlaceOrder(db *gorm.DB, userID string, shipping models.Address) (*models.Order, error) {
	var cart models.Cart
	if err := db.
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("cart_items.added_at") }).
		Preload("Items.Product").
		Preload("Items.Product.Images").
		Preload("Items.Product.Variants").
		Where("user_id = ?", userID).
		First(&cart).Error; err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// Re-check every line against the stock just read: other checkouts may
	// have consumed it since the lines were added. The check claims the
	// full line quantity, it is not incremental.
	orderItems := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.Product.ID == 0 {
			// Product was deleted while sitting in the cart.
			return nil, inventory.ErrVariantNotFound
		}
		if err := inventory.CheckAvailability(&item.Product, item.VariantKey(), 0, item.Quantity); err != nil {
			return nil, err
		}
		orderItems = append(orderItems, models.OrderItem{
			ProductID:    item.ProductID,
			Name:         item.Product.Name,
			Quantity:     item.Quantity,
			Price:        item.Price, // price locked when the line was created
			Image:        item.Product.FirstImage(),
			VariantType:  item.VariantType,
			VariantValue: item.VariantValue,
		})
	}

	order := models.Order{
		Ref:             generateOrderRef(),
		UserID:          userID,
		Items:           orderItems,
		ShippingAddress: shipping,
		TotalPrice:      models.OrderItemsTotal(orderItems),
		Status:          models.OrderStatusPending,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, item := range order.Items {
			// Guarded decrement: only succeeds while enough stock remains
			// at write time, closing the read-then-write race between
			// concurrent checkouts on the same variant.
			res := tx.Model(&models.Variant{}).
				Where("product_id = ? AND type = ? AND value = ? AND stock >= ?",
					item.ProductID, item.VariantType, item.VariantValue, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// A concurrent checkout won the race; report the stock that
				// is actually left.
				available := 0
				var variant models.Variant
				if err := tx.Where("product_id = ? AND type = ? AND value = ?",
					item.ProductID, item.VariantType, item.VariantValue).
					First(&variant).Error; err == nil {
					available = variant.Stock
				}
				return &inventory.InsufficientStockError{
					ProductName: item.Name,
					Variant:     item.VariantKey(),
					Available:   available,
				}
			}
		}

		return tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

var ErrEmptyCart = errors.New("your cart is empty")

// -------- Handlers --------

// POST /orders
func PlaceOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}

		// Empty-cart takes precedence over address validation: a client
		// with nothing to buy is told so regardless of how it asked.
		var lineCount int64
		err := db.Model(&models.CartItem{}).
			Joins("JOIN carts ON carts.cart_id = cart_items.cart_id").
			Where("carts.user_id = ?", userID).
			Count(&lineCount).Error
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("failed to inspect cart")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
			return
		}
		if lineCount == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
			return
		}

		var input PlaceOrderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		shipping := models.Address{
			Street:  input.ShippingAddress.Street,
			City:    input.ShippingAddress.City,
			State:   input.ShippingAddress.State,
			ZipCode: input.ShippingAddress.ZipCode,
			Country: input.ShippingAddress.Country,
		}

		order, err := PlaceOrder(db, userID, shipping)
		if err != nil {
			var stockErr *inventory.InsufficientStockError
			switch {
			case errors.Is(err, ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
			case errors.As(err, &stockErr):
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     stockErr.Error(),
					"available": stockErr.Available,
				})
			case errors.Is(err, inventory.ErrVariantNotFound):
				c.JSON(http.StatusBadRequest, gin.H{"error": "A cart item refers to a product variant that no longer exists"})
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "User cart not found"})
			default:
				log.Error().Err(err).Str("user_id", userID).Msg("checkout failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
			}
			return
		}

		broadcastOrderEvent("order_created", order)
		c.JSON(http.StatusCreated, order)
	}
}

// GET /orders/my-orders
func GetMyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}

		var orders []models.Order
		if err := db.
			Preload("Items").
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			log.Error().Err(err).Msg("failed to fetch orders")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"results": len(orders), "orders": orders})
	}
}

// GET /orders/:id
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		orderID := c.Param("id")

		var order models.Order
		if err := db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			log.Error().Err(err).Msg("failed to fetch order")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		if order.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to view this order"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// GET /orders (admin)
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			log.Error().Err(err).Msg("failed to fetch orders")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": len(orders), "orders": orders})
	}
}

// PATCH /orders/:id/status (admin)
//
// Any status may be set from any current status. Setting Delivered also
// stamps the delivery time. Nothing else on a persisted order is mutable.
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("id")

		var input UpdateOrderStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		newStatus, err := models.ParseOrderStatus(input.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			log.Error().Err(err).Msg("failed to fetch order")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		updates := map[string]interface{}{"status": newStatus}
		if newStatus == models.OrderStatusDelivered {
			now := time.Now()
			updates["delivered_at"] = &now
			order.DeliveredAt = &now
		}
		if err := db.Model(&order).Updates(updates).Error; err != nil {
			log.Error().Err(err).Msg("failed to update order status")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
			return
		}
		order.Status = newStatus

		broadcastOrderEvent("order_status_changed", &order)
		c.JSON(http.StatusOK, order)
	}
}
