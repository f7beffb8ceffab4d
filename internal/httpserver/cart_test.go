package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrimart/storefront/internal/transport"
)

// cartCookieFrom extracts the cart session cookie minted by the first cart
// request, so follow-up requests hit the same cart.
func cartCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "cart_session" && ck.Value != "" {
			return &http.Cookie{Name: ck.Name, Value: ck.Value, Path: "/"}
		}
	}
	t.Fatalf("no cart_session cookie in response")
	return nil
}

func TestGetCart_StartsEmpty(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.doJSON(http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[transport.CartResponse](t, rec)
	assert.Empty(t, resp.Items)
	assert.Equal(t, 0, resp.ItemCount)
	assert.Equal(t, "0.00", resp.Total)

	cartCookieFrom(t, rec)
}

func TestAddItem(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/api/cart/items", map[string]int{"productId": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	ck := cartCookieFrom(t, rec)

	rec = env.doJSON(http.MethodPost, "/api/cart/items", map[string]int{"productId": 1}, ck)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[transport.CartResponse](t, rec)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.Equal(t, 2, resp.ItemCount)
	// Seeded watch: 299.99 at 15% off is 254.99 per unit.
	assert.Equal(t, "254.99", resp.Items[0].EffectivePrice)
	assert.Equal(t, "509.98", resp.Total)

	// Cart responses speak the same camelCase as the product payloads.
	assert.Contains(t, rec.Body.String(), `"productId"`)
	assert.Contains(t, rec.Body.String(), `"itemCount"`)
	assert.NotContains(t, rec.Body.String(), `"product_id"`)
}

func TestAddItem_Errors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/api/cart/items", map[string]int{"productId": 999})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.doJSON(http.MethodPost, "/api/cart/items", map[string]int{"productId": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateItem(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/api/cart/items", map[string]int{"productId": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	ck := cartCookieFrom(t, rec)

	rec = env.doJSON(http.MethodPatch, "/api/cart/items/2", map[string]int{"quantity": 3}, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[transport.CartResponse](t, rec)
	assert.Equal(t, 3, resp.ItemCount)
	assert.Equal(t, "599.97", resp.Total)

	// Quantity zero drops the line item.
	rec = env.doJSON(http.MethodPatch, "/api/cart/items/2", map[string]int{"quantity": 0}, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeJSON[transport.CartResponse](t, rec)
	assert.Empty(t, resp.Items)

	rec = env.doJSON(http.MethodPatch, "/api/cart/items/abc", map[string]int{"quantity": 1}, ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doJSON(http.MethodPatch, "/api/cart/items/2", map[string]string{}, ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveItem(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/api/cart/items", map[string]int{"productId": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	ck := cartCookieFrom(t, rec)

	rec = env.doJSON(http.MethodDelete, "/api/cart/items/1", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[transport.CartResponse](t, rec)
	assert.Empty(t, resp.Items)

	// Removing something that is not there is still a 200.
	rec = env.doJSON(http.MethodDelete, "/api/cart/items/1", nil, ck)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClearCart(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/api/cart/items", map[string]int{"productId": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	ck := cartCookieFrom(t, rec)

	rec = env.doJSON(http.MethodDelete, "/api/cart", nil, ck)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.doJSON(http.MethodGet, "/api/cart", nil, ck)
	resp := decodeJSON[transport.CartResponse](t, rec)
	assert.Equal(t, 0, resp.ItemCount)
	assert.Equal(t, "0.00", resp.Total)
}

func TestCheckout(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/api/cart/items", map[string]int{"productId": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	ck := cartCookieFrom(t, rec)

	rec = env.doJSON(http.MethodPost, "/api/checkout", map[string]string{"paymentMethod": "card"}, ck)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[transport.CheckoutResponse](t, rec)
	assert.NotEmpty(t, resp.OrderRef)
	assert.Equal(t, "card", resp.PaymentMethod)
	assert.Equal(t, "199.99", resp.Subtotal)
	assert.Equal(t, "5.99", resp.DeliveryFee)
	assert.Equal(t, "205.98", resp.Total)
	assert.Equal(t, "confirmed", resp.Status)

	// The cart is empty afterwards.
	rec = env.doJSON(http.MethodGet, "/api/cart", nil, ck)
	cartResp := decodeJSON[transport.CartResponse](t, rec)
	assert.Equal(t, 0, cartResp.ItemCount)
}

func TestCheckout_Errors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	// Empty cart.
	rec := env.doJSON(http.MethodPost, "/api/checkout", map[string]string{"paymentMethod": "card"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown payment method.
	rec = env.doJSON(http.MethodPost, "/api/cart/items", map[string]int{"productId": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	ck := cartCookieFrom(t, rec)

	rec = env.doJSON(http.MethodPost, "/api/checkout", map[string]string{"paymentMethod": "bitcoin"}, ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/api/cart/items", map[string]int{"productId": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	first := cartCookieFrom(t, rec)

	// A request without the cookie gets a fresh cart.
	rec = env.doJSON(http.MethodGet, "/api/cart", nil)
	resp := decodeJSON[transport.CartResponse](t, rec)
	assert.Equal(t, 0, resp.ItemCount)

	rec = env.doJSON(http.MethodGet, "/api/cart", nil, first)
	resp = decodeJSON[transport.CartResponse](t, rec)
	assert.Equal(t, 1, resp.ItemCount)
}
