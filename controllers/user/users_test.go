package userControllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theilkerm/pf-se-cs/models"
	"github.com/theilkerm/pf-se-cs/testutil"
)

func TestGetMe(t *testing.T) {
	db := testutil.OpenDB(t)
	r := testutil.Router(db)
	user, token := testutil.CreateUser(t, db, models.RoleCustomer)

	w := testutil.DoJSON(t, r, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, user.ID, me.ID)
	assert.Equal(t, user.Email, me.Email)
	assert.NotContains(t, w.Body.String(), "password_hash")
}

func TestUpdateMe_PartialFields(t *testing.T) {
	db := testutil.OpenDB(t)
	r := testutil.Router(db)
	user, token := testutil.CreateUser(t, db, models.RoleCustomer)

	w := testutil.DoJSON(t, r, http.MethodPut, "/api/v1/users/me", token, map[string]interface{}{
		"first_name": "Renamed",
		"address": map[string]string{
			"street":   "1 New Rd",
			"city":     "Newtown",
			"state":    "NT",
			"zip_code": "00001",
			"country":  "Testland",
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, "Renamed", reloaded.FirstName)
	assert.Equal(t, user.LastName, reloaded.LastName)
	assert.Equal(t, "Newtown", reloaded.Address.City)
}

func TestMe_RequiresAuth(t *testing.T) {
	db := testutil.OpenDB(t)
	r := testutil.Router(db)

	w := testutil.DoJSON(t, r, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
