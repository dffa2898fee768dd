package reviewControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/theilkerm/pf-se-cs/models"
	"gorm.io/gorm"
)

type CreateReviewInput struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// POST /reviews
//
// Only buyers may review: the caller must have an order containing the
// product, and at most one review per user and product.
func CreateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID, ok := userIDVal.(string)
		if !ok || userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input CreateReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var purchased int64
		err := db.Model(&models.OrderItem{}).
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("orders.user_id = ? AND order_items.product_id = ?", userID, input.ProductID).
			Count(&purchased).Error
		if err != nil {
			log.Error().Err(err).Msg("failed to check purchase history")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
			return
		}
		if purchased == 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only review products you have purchased"})
			return
		}

		var existing models.Review
		err = db.Where("user_id = ? AND product_id = ?", userID, input.ProductID).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You have already reviewed this product"})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Msg("failed to check existing review")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
			return
		}

		// New reviews await moderation; they do not show up in listings
		// or the product aggregate until an admin approves them.
		review := models.Review{
			ProductID: input.ProductID,
			UserID:    userID,
			Rating:    input.Rating,
			Comment:   input.Comment,
		}
		if err := db.Create(&review).Error; err != nil {
			log.Error().Err(err).Msg("failed to create review")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
			return
		}

		c.JSON(http.StatusCreated, review)
	}
}

// PATCH /admin/reviews/:id/approve
//
// Publishes a review and folds it into the product's average rating and
// review count. Approving an already-approved review is a no-op.
func ApproveReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var review models.Review
		if err := db.First(&review, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
				return
			}
			log.Error().Err(err).Msg("failed to fetch review")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve review"})
			return
		}

		if !review.IsApproved {
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Model(&review).Update("is_approved", true).Error; err != nil {
					return err
				}
				return recomputeProductRating(tx, review.ProductID)
			})
			if err != nil {
				log.Error().Err(err).Uint("review_id", review.ID).Msg("failed to approve review")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve review"})
				return
			}
			review.IsApproved = true
		}

		c.JSON(http.StatusOK, review)
	}
}

// GET /products/:id/reviews
func GetProductReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reviews []models.Review
		if err := db.
			Where("product_id = ? AND is_approved = ?", c.Param("id"), true).
			Order("created_at DESC").
			Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": len(reviews), "reviews": reviews})
	}
}

// recomputeProductRating refreshes the product's aggregate mean rating and
// review count from the approved reviews.
func recomputeProductRating(tx *gorm.DB, productID uint) error {
	var agg struct {
		Avg   float64
		Count int
	}
	err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Scan(&agg).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"average_rating": agg.Avg,
			"num_reviews":    agg.Count,
		}).Error
}
