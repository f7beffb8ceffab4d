package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/nutrimart/storefront/internal/cart"
	"github.com/nutrimart/storefront/internal/service"
	"github.com/nutrimart/storefront/internal/storage"
)

type testEnv struct {
	t     *testing.T
	e     *echo.Echo
	store *storage.MemStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := storage.NewSeededMemStore()
	require.NoError(t, err)

	secret := []byte("test-jwt-secret")
	carts := cart.NewManager(time.Hour, nil, nil)
	t.Cleanup(carts.Close)

	checkoutSvc := service.NewCheckoutService(nil)
	checkoutSvc.Delay = 0

	e := echo.New()
	Register(e, &Deps{
		Products: &ProductHTTP{Svc: service.NewCatalogService(store, nil, nil)},
		Auth: &AuthHTTP{Svc: &service.AuthService{
			Store:      store,
			JWTSecret:  secret,
			SessionTTL: time.Hour,
		}},
		Cart: &CartHTTP{
			Carts:       carts,
			Catalog:     service.NewCatalogService(store, nil, nil),
			CheckoutSvc: checkoutSvc,
			SessionTTL:  time.Hour,
		},
		JWTSecret: secret,
	})

	return &testEnv{t: t, e: e, store: store}
}

// doJSON drives a request through the full router, middleware included.
func (env *testEnv) doJSON(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	env.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(env.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// login returns the session cookie for an existing account.
func (env *testEnv) login(username, password string) *http.Cookie {
	env.t.Helper()

	rec := env.doJSON(http.MethodPost, "/api/login", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(env.t, http.StatusOK, rec.Code)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "session" {
			return &http.Cookie{Name: ck.Name, Value: ck.Value, Path: "/"}
		}
	}
	env.t.Fatalf("no session cookie in login response")
	return nil
}

func (env *testEnv) loginAdmin() *http.Cookie {
	return env.login("admin", "admin")
}

// registerAndLogin creates a regular account and returns its session cookie.
func (env *testEnv) registerAndLogin(username string) *http.Cookie {
	env.t.Helper()

	rec := env.doJSON(http.MethodPost, "/api/register", map[string]string{
		"username": username,
		"password": "password",
	})
	require.Equal(env.t, http.StatusCreated, rec.Code)

	return env.login(username, "password")
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
