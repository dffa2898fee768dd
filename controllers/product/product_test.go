package productcontroller_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theilkerm/pf-se-cs/models"
	"github.com/theilkerm/pf-se-cs/testutil"
	"gorm.io/gorm"
)

func createCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := models.Category{Name: name}
	require.NoError(t, db.Create(&category).Error)
	return &category
}

func TestCreateProduct_DefaultVariant(t *testing.T) {
	db := testutil.OpenDB(t)
	r := testutil.Router(db)
	_, adminToken := testutil.CreateUser(t, db, models.RoleAdmin)
	category := createCategory(t, db, "Mugs")

	body := map[string]interface{}{
		"name":        "Plain Mug",
		"description": "A mug",
		"price":       "7.50",
		"category_id": category.ID,
		"stock":       12,
	}
	w := testutil.DoJSON(t, r, http.MethodPost, "/api/v1/admin/products", adminToken, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var product models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	require.Len(t, product.Variants, 1)
	assert.Equal(t, "Default", product.Variants[0].Type)
	assert.Equal(t, "Standard", product.Variants[0].Value)
	assert.Equal(t, 12, product.Variants[0].Stock)
	assert.True(t, product.IsActive)
}

func TestCreateProduct_WithVariantsAndImages(t *testing.T) {
	db := testutil.OpenDB(t)
	r := testutil.Router(db)
	_, adminToken := testutil.CreateUser(t, db, models.RoleAdmin)
	category := createCategory(t, db, "Shirts")

	body := map[string]interface{}{
		"name":        "Tee",
		"description": "A shirt",
		"price":       "19.99",
		"category_id": category.ID,
		"images":      []string{"/img/front.jpg", "/img/back.jpg"},
		"variants": []map[string]interface{}{
			{"type": "Size", "value": "M", "stock": 5},
			{"type": "Size", "value": "L", "stock": 3},
		},
	}
	w := testutil.DoJSON(t, r, http.MethodPost, "/api/v1/admin/products", adminToken, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var product models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	require.Len(t, product.Variants, 2)
	require.Len(t, product.Images, 2)
	assert.Equal(t, "/img/front.jpg", product.FirstImage())

	key := models.VariantKey{Type: "Size", Value: "L"}
	variant := product.FindVariant(key)
	require.NotNil(t, variant)
	assert.Equal(t, 3, variant.Stock)
}

func TestCreateProduct_Validation(t *testing.T) {
	db := testutil.OpenDB(t)
	r := testutil.Router(db)
	_, adminToken := testutil.CreateUser(t, db, models.RoleAdmin)
	category := createCategory(t, db, "Mugs")

	t.Run("negative price", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPost, "/api/v1/admin/products", adminToken, map[string]interface{}{
			"name":        "Bad",
			"description": "x",
			"price":       "-1.00",
			"category_id": category.ID,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown category", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPost, "/api/v1/admin/products", adminToken, map[string]interface{}{
			"name":        "Orphan",
			"description": "x",
			"price":       "1.00",
			"category_id": 99999,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreateProduct_RequiresAdmin(t *testing.T) {
	db := testutil.OpenDB(t)
	r := testutil.Router(db)
	_, token := testutil.CreateUser(t, db, models.RoleCustomer)

	w := testutil.DoJSON(t, r, http.MethodPost, "/api/v1/admin/products", token, map[string]interface{}{})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = testutil.DoJSON(t, r, http.MethodPost, "/api/v1/admin/products", "", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateProduct_PartialFields(t *testing.T) {
	db := testutil.OpenDB(t)
	r := testutil.Router(db)
	_, adminToken := testutil.CreateUser(t, db, models.RoleAdmin)
	product := testutil.CreateProduct(t, db, "Widget", "10.00",
		models.Variant{Type: "Color", Value: "Red", Stock: 5})

	path := fmt.Sprintf("/api/v1/admin/products/%d", product.ID)
	w := testutil.DoJSON(t, r, http.MethodPut, path, adminToken,
		map[string]interface{}{"price": "12.00"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Product
	require.NoError(t, db.First(&updated, "id = ?", product.ID).Error)
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, "12.00", updated.Price.StringFixed(2))
}

func TestUpdateProduct_DeactivateHidesFromListing(t *testing.T) {
	db := testutil.OpenDB(t)
	r := testutil.Router(db)
	_, adminToken := testutil.CreateUser(t, db, models.RoleAdmin)
	product := testutil.CreateProduct(t, db, "Widget", "10.00",
		models.Variant{Type: "Color", Value: "Red", Stock: 5})

	path := fmt.Sprintf("/api/v1/admin/products/%d", product.ID)
	w := testutil.DoJSON(t, r, http.MethodPut, path, adminToken,
		map[string]interface{}{"is_active": false})
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Total    int64            `json:"total"`
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(0), resp.Total)
	assert.Empty(t, resp.Products)

	// Direct lookup still works for admins reviewing the record.
	w = testutil.DoJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", product.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetProducts_Filters(t *testing.T) {
	db := testutil.OpenDB(t)
	r := testutil.Router(db)
	cheap := testutil.CreateProduct(t, db, "Cheap", "5.00",
		models.Variant{Type: "Default", Value: "Standard", Stock: 1})
	testutil.CreateProduct(t, db, "Dear", "50.00",
		models.Variant{Type: "Default", Value: "Standard", Stock: 1})

	w := testutil.DoJSON(t, r, http.MethodGet, "/api/v1/products?price_lt=10", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Total    int64            `json:"total"`
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(1), resp.Total)
	assert.Equal(t, "Cheap", resp.Products[0].Name)

	path := fmt.Sprintf("/api/v1/products?category=%d", cheap.CategoryID)
	w = testutil.DoJSON(t, r, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp.Products = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(1), resp.Total)
	assert.Equal(t, "Cheap", resp.Products[0].Name)
}

func TestGetProductByID(t *testing.T) {
	db := testutil.OpenDB(t)
	r := testutil.Router(db)
	product := testutil.CreateProduct(t, db, "Widget", "10.00",
		models.Variant{Type: "Color", Value: "Red", Stock: 5},
		models.Variant{Type: "Color", Value: "Blue", Stock: 0})

	w := testutil.DoJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", product.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var fetched models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Len(t, fetched.Variants, 2)

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/v1/products/99999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProduct_RemovesDependents(t *testing.T) {
	db := testutil.OpenDB(t)
	r := testutil.Router(db)
	user, _ := testutil.CreateUser(t, db, models.RoleCustomer)
	_, adminToken := testutil.CreateUser(t, db, models.RoleAdmin)
	product := testutil.CreateProduct(t, db, "Widget", "10.00",
		models.Variant{Type: "Color", Value: "Red", Stock: 5})

	review := models.Review{UserID: user.ID, ProductID: product.ID, Rating: 4, Comment: "fine"}
	require.NoError(t, db.Create(&review).Error)

	w := testutil.DoJSON(t, r, http.MethodDelete,
		fmt.Sprintf("/api/v1/admin/products/%d", product.ID), adminToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	var n int64
	db.Model(&models.Product{}).Where("id = ?", product.ID).Count(&n)
	assert.Equal(t, int64(0), n)
	db.Model(&models.Variant{}).Where("product_id = ?", product.ID).Count(&n)
	assert.Equal(t, int64(0), n)
	db.Model(&models.Review{}).Where("product_id = ?", product.ID).Count(&n)
	assert.Equal(t, int64(0), n)
}

func TestSetVariantStock(t *testing.T) {
	db := testutil.OpenDB(t)
	r := testutil.Router(db)
	_, adminToken := testutil.CreateUser(t, db, models.RoleAdmin)
	product := testutil.CreateProduct(t, db, "Widget", "10.00",
		models.Variant{Type: "Color", Value: "Red", Stock: 5})

	var variant models.Variant
	require.NoError(t, db.Where("product_id = ?", product.ID).First(&variant).Error)
	path := fmt.Sprintf("/api/v1/admin/variants/%d/stock", variant.ID)

	t.Run("set to zero", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPatch, path, adminToken, map[string]int{"stock": 0})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var reloaded models.Variant
		require.NoError(t, db.First(&reloaded, "id = ?", variant.ID).Error)
		assert.Equal(t, 0, reloaded.Stock)
	})

	t.Run("restock", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPatch, path, adminToken, map[string]int{"stock": 9})
		require.Equal(t, http.StatusOK, w.Code)

		var reloaded models.Variant
		require.NoError(t, db.First(&reloaded, "id = ?", variant.ID).Error)
		assert.Equal(t, 9, reloaded.Stock)
	})

	t.Run("missing stock field", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPatch, path, adminToken, map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative stock", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPatch, path, adminToken, map[string]int{"stock": -1})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown variant", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPatch, "/api/v1/admin/variants/99999/stock", adminToken, map[string]int{"stock": 1})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCategoryCRUD(t *testing.T) {
	db := testutil.OpenDB(t)
	r := testutil.Router(db)
	_, adminToken := testutil.CreateUser(t, db, models.RoleAdmin)

	w := testutil.DoJSON(t, r, http.MethodPost, "/api/v1/admin/categories", adminToken,
		map[string]string{"name": "Books", "description": "Paper things"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var category models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &category))

	t.Run("duplicate name rejected", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPost, "/api/v1/admin/categories", adminToken,
			map[string]string{"name": "Books"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("listing is public", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodGet, "/api/v1/categories", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Categories []models.Category `json:"categories"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Categories, 1)
	})

	t.Run("update", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/admin/categories/%d", category.ID)
		w := testutil.DoJSON(t, r, http.MethodPut, path, adminToken,
			map[string]string{"name": "Literature"})
		require.Equal(t, http.StatusOK, w.Code)

		var reloaded models.Category
		require.NoError(t, db.First(&reloaded, "id = ?", category.ID).Error)
		assert.Equal(t, "Literature", reloaded.Name)
	})

	t.Run("delete", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/admin/categories/%d", category.ID)
		w := testutil.DoJSON(t, r, http.MethodDelete, path, adminToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = testutil.DoJSON(t, r, http.MethodDelete, path, adminToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestExportProducts(t *testing.T) {
	db := testutil.OpenDB(t)
	r := testutil.Router(db)
	_, adminToken := testutil.CreateUser(t, db, models.RoleAdmin)
	testutil.CreateProduct(t, db, "Widget", "10.00",
		models.Variant{Type: "Color", Value: "Red", Stock: 5},
		models.Variant{Type: "Color", Value: "Blue", Stock: 2})

	w := testutil.DoJSON(t, r, http.MethodGet, "/api/v1/admin/products/export", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.NotZero(t, w.Body.Len())
}
