package auth_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theilkerm/pf-se-cs/models"
	"github.com/theilkerm/pf-se-cs/testutil"
)

func registerBody(email string) map[string]string {
	return map[string]string{
		"first_name": "Test",
		"last_name":  "User",
		"email":      email,
		"password":   "password123",
	}
}

func TestRegister(t *testing.T) {
	db := testutil.OpenDB(t)
	r := testutil.Router(db)

	w := testutil.DoJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", registerBody("new@example.com"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleCustomer, resp.User.Role)

	// The password hash must never leave the server.
	assert.NotContains(t, w.Body.String(), "password_hash")

	// Registration also provisions the user's cart.
	var cart models.Cart
	require.NoError(t, db.Where("user_id = ?", resp.User.ID).First(&cart).Error)

	t.Run("duplicate email rejected", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", registerBody("new@example.com"))
		require.Equal(t, http.StatusBadRequest, w.Code)

		var errResp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
		assert.Equal(t, "Email already registered", errResp["error"])
	})

	t.Run("short password rejected", func(t *testing.T) {
		body := registerBody("short@example.com")
		body["password"] = "abc"
		w := testutil.DoJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogin(t *testing.T) {
	db := testutil.OpenDB(t)
	r := testutil.Router(db)

	w := testutil.DoJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", registerBody("login@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("valid credentials", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "login@example.com",
			"password": "password123",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "login@example.com",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "nobody@example.com",
			"password": "password123",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
