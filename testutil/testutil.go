// Package testutil wires a throwaway in-memory database and a production
// router for handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/theilkerm/pf-se-cs/auth"
	"github.com/theilkerm/pf-se-cs/models"
	"github.com/theilkerm/pf-se-cs/routes"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DoJSON performs a JSON request against the router under test.
func DoJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// OpenDB returns a migrated, test-scoped in-memory database.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Variant{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

// Router builds the same route tree production uses.
func Router(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	routes.SetupRoutes(r, db)
	return r
}

// CreateUser inserts a user with an empty cart and returns it together
// with a valid session token.
func CreateUser(t *testing.T, db *gorm.DB, role string) (*models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()),
		PasswordHash: string(hash),
		Role:         role,
		FirstName:    "Test",
		LastName:     "User",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := db.Create(&models.Cart{UserID: user.ID}).Error; err != nil {
		t.Fatalf("create cart: %v", err)
	}

	token, err := auth.IssueJWT(&user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return &user, token
}

// CreateProduct inserts a product in a fresh category with the given
// price and variants.
func CreateProduct(t *testing.T, db *gorm.DB, name, price string, variants ...models.Variant) *models.Product {
	t.Helper()

	category := models.Category{Name: "Category " + uuid.NewString()}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}

	product := models.Product{
		Name:        name,
		Description: "test product",
		Price:       decimal.RequireFromString(price),
		CategoryID:  category.ID,
		IsActive:    true,
		Variants:    variants,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return &product
}
