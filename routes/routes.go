package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up all route groups
// under /api/v1.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	api := r.Group("/api/v1")

	// Public auth + catalog browsing (no middleware)
	SetupAuthRoutes(api, db)
	SetupCatalogRoutes(api, db)

	// Authenticated customer routes (JWT-protected)
	SetupUserRoutes(api, db)
	SetupOrderRoutes(api, db)

	// Admin routes (JWT + role check)
	SetupAdminRoutes(api, db)
}
