package cartControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/theilkerm/pf-se-cs/inventory"
	"github.com/theilkerm/pf-se-cs/models"
	"gorm.io/gorm"
)

type VariantInput struct {
	Type  string `json:"type" binding:"required"`
	Value string `json:"value" binding:"required"`
}

type AddCartItemInput struct {
	ProductID uint          `json:"product_id" binding:"required"`
	Quantity  int           `json:"quantity" binding:"required,min=1"`
	Variant   *VariantInput `json:"variant" binding:"required"`
}

type UpdateCartItemInput struct {
	ProductID uint          `json:"product_id" binding:"required"`
	Quantity  int           `json:"quantity" binding:"required,min=1"`
	Variant   *VariantInput `json:"variant" binding:"required"`
}

func (v *VariantInput) key() models.VariantKey {
	return models.VariantKey{Type: v.Type, Value: v.Value}
}

func userCart(db *gorm.DB, c *gin.Context) (*models.Cart, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}

	var cart models.Cart
	if err := db.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to load cart")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return nil, false
	}
	return &cart, true
}

func respondStockError(c *gin.Context, err error) {
	var stockErr *inventory.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     stockErr.Error(),
			"available": stockErr.Available,
		})
	case errors.Is(err, inventory.ErrVariantNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not have the selected variant"})
	default:
		log.Error().Err(err).Msg("cart stock check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
	}
}

func loadCartItems(db *gorm.DB, cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := db.
		Preload("Product").
		Preload("Product.Images").
		Preload("Product.Variants").
		Where("cart_id = ?", cartID).
		Order("added_at").
		Find(&items).Error
	return items, err
}

// GET /cart
func GetUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, ok := userCart(db, c)
		if !ok {
			return
		}
		items, err := loadCartItems(db, cart.CartID)
		if err != nil {
			log.Error().Err(err).Msg("failed to fetch cart items")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": items})
	}
}

// POST /cart
//
// Adds a line, or merges into the existing line for the same product and
// variant: the quantities add up, the captured price stays. Stock is only
// checked here, never deducted; the deduction happens at checkout.
func AddCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddCartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cart, ok := userCart(db, c)
		if !ok {
			return
		}

		var product models.Product
		if err := db.Preload("Variants").First(&product, "id = ?", input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				return
			}
			log.Error().Err(err).Uint("product_id", input.ProductID).Msg("failed to load product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			return
		}

		key := input.Variant.key()

		// Quantity already reserved by this cart counts against stock.
		var item models.CartItem
		reserved := 0
		found := true
		err := db.Where("cart_id = ? AND product_id = ? AND variant_type = ? AND variant_value = ?",
			cart.CartID, product.ID, key.Type, key.Value).First(&item).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Error().Err(err).Msg("failed to fetch cart item")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart item"})
				return
			}
			found = false
		} else {
			reserved = item.Quantity
		}

		if err := inventory.CheckAvailability(&product, key, reserved, input.Quantity); err != nil {
			respondStockError(c, err)
			return
		}

		if found {
			item.Quantity += input.Quantity
			item.AddedAt = time.Now()
			err = db.Save(&item).Error
		} else {
			item = models.CartItem{
				CartID:       cart.CartID,
				ProductID:    product.ID,
				VariantType:  key.Type,
				VariantValue: key.Value,
				Quantity:     input.Quantity,
				Price:        product.Price, // captured once, charged at checkout
				AddedAt:      time.Now(),
			}
			err = db.Create(&item).Error
		}
		if err != nil {
			log.Error().Err(err).Msg("failed to persist cart item")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
			return
		}

		items, err := loadCartItems(db, cart.CartID)
		if err != nil {
			log.Error().Err(err).Msg("failed to fetch cart items")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item added to cart", "cart": items})
	}
}

// PATCH /cart
//
// Sets a line's absolute quantity. The new quantity is validated on its
// own against live stock, not added to the current one.
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateCartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cart, ok := userCart(db, c)
		if !ok {
			return
		}

		key := input.Variant.key()

		var item models.CartItem
		err := db.Where("cart_id = ? AND product_id = ? AND variant_type = ? AND variant_value = ?",
			cart.CartID, input.ProductID, key.Type, key.Value).First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product with specified variant not found in cart"})
				return
			}
			log.Error().Err(err).Msg("failed to fetch cart item")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart item"})
			return
		}

		var product models.Product
		if err := db.Preload("Variants").First(&product, "id = ?", input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				return
			}
			log.Error().Err(err).Uint("product_id", input.ProductID).Msg("failed to load product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			return
		}

		if err := inventory.CheckAvailability(&product, key, 0, input.Quantity); err != nil {
			respondStockError(c, err)
			return
		}

		item.Quantity = input.Quantity
		item.AddedAt = time.Now()
		if err := db.Save(&item).Error; err != nil {
			log.Error().Err(err).Msg("failed to update cart item")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}

		items, err := loadCartItems(db, cart.CartID)
		if err != nil {
			log.Error().Err(err).Msg("failed to fetch cart items")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": items})
	}
}

// DELETE /cart/:cartLineId
//
// Removing an already-absent line is a no-op, not an error.
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, ok := userCart(db, c)
		if !ok {
			return
		}

		// A garbage id cannot name a line, so it is the same no-op as a
		// line that was already removed. Parsing up front also keeps the
		// raw param out of the integer column comparison.
		lineID, err := strconv.ParseUint(c.Param("cartLineId"), 10, 64)
		if err != nil {
			c.Status(http.StatusNoContent)
			return
		}

		if err := db.Where("cart_id = ? AND id = ?", cart.CartID, lineID).
			Delete(&models.CartItem{}).Error; err != nil {
			log.Error().Err(err).Uint64("line_id", lineID).Msg("failed to delete cart item")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// DELETE /cart
func ClearUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, ok := userCart(db, c)
		if !ok {
			return
		}

		if err := db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			log.Error().Err(err).Msg("failed to clear cart")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
