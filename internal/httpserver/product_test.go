package httpserver

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrimart/storefront/internal/models"
)

func TestGetProducts_ReturnsSeededCatalog(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.doJSON(http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	items := decodeJSON[[]models.Product](t, rec)
	require.Len(t, items, 2)
	assert.Equal(t, "Premium Watch", items[0].Name)
	assert.Equal(t, "Wireless Headphones", items[1].Name)
}

func TestGetProduct(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.doJSON(http.MethodGet, "/api/products/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	prod := decodeJSON[models.Product](t, rec)
	assert.Equal(t, 1, prod.ID)
	assert.Equal(t, "299.99", prod.Price.String())

	rec = env.doJSON(http.MethodGet, "/api/products/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.doJSON(http.MethodGet, "/api/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProduct_RequiresAdmin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	payload := map[string]any{
		"name":        "Espresso Beans",
		"description": "Dark roast",
		"price":       "12.50",
		"imageUrl":    "/beans.png",
	}

	// Admin routes answer 403 for anyone who is not an admin, whether the
	// caller has no session, a broken session, or a regular account.
	rec := env.doJSON(http.MethodPost, "/api/products", payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.doJSON(http.MethodPost, "/api/products", payload,
		&http.Cookie{Name: "session", Value: "not-a-jwt", Path: "/"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	userCk := env.registerAndLogin("shopper")
	rec = env.doJSON(http.MethodPost, "/api/products", payload, userCk)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admin succeeds.
	adminCk := env.loginAdmin()
	rec = env.doJSON(http.MethodPost, "/api/products", payload, adminCk)
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeJSON[models.Product](t, rec)
	require.NotZero(t, created.ID)

	rec = env.doJSON(http.MethodGet, fmt.Sprintf("/api/products/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeJSON[models.Product](t, rec)
	assert.Equal(t, "Espresso Beans", got.Name)
	assert.Equal(t, "12.5", got.Price.String())
}

func TestCreateProduct_ValidationErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	adminCk := env.loginAdmin()

	rec := env.doJSON(http.MethodPost, "/api/products", map[string]any{
		"name":               "",
		"description":        "x",
		"imageUrl":           "/x.png",
		"discountPercentage": 150,
	}, adminCk)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeJSON[struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}](t, rec)
	assert.Equal(t, "validation failed", resp.Message)
	assert.Contains(t, resp.Errors, "name")
	assert.Contains(t, resp.Errors, "price")
	assert.Contains(t, resp.Errors, "discountPercentage")
}

func TestPatchProduct(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	adminCk := env.loginAdmin()

	rec := env.doJSON(http.MethodPatch, "/api/products/2", map[string]any{
		"price":              "149.99",
		"discountPercentage": 10,
	}, adminCk)
	require.Equal(t, http.StatusOK, rec.Code)

	prod := decodeJSON[models.Product](t, rec)
	assert.Equal(t, "Wireless Headphones", prod.Name)
	assert.Equal(t, "149.99", prod.Price.String())
	require.NotNil(t, prod.DiscountPercentage)
	assert.Equal(t, 10, *prod.DiscountPercentage)

	rec = env.doJSON(http.MethodPatch, "/api/products/999", map[string]any{"name": "x"}, adminCk)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProduct_FullFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	adminCk := env.loginAdmin()

	rec := env.doJSON(http.MethodDelete, "/api/products/1", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.doJSON(http.MethodDelete, "/api/products/1", nil, adminCk)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.doJSON(http.MethodGet, "/api/products/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.doJSON(http.MethodDelete, "/api/products/1", nil, adminCk)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchProducts_Unconfigured(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.doJSON(http.MethodGet, "/api/products/search?q=watch", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = env.doJSON(http.MethodGet, "/api/products/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
