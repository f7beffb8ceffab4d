package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/nutrimart/storefront/internal/middleware/auth"
)

type Deps struct {
	Products  *ProductHTTP
	Auth      *AuthHTTP
	Cart      *CartHTTP
	JWTSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	sessionMW := authmw.NewSessionMiddleware(d.JWTSecret)

	api := e.Group("/api")

	api.POST("/register", d.Auth.Register)
	api.POST("/login", d.Auth.Login)
	api.POST("/logout", d.Auth.Logout)
	api.GET("/user", d.Auth.CurrentUser, sessionMW.RequireAuth)

	products := api.Group("/products")
	products.GET("", d.Products.GetProducts)
	products.GET("/search", d.Products.SearchProducts)
	products.GET("/:id", d.Products.GetProduct)

	admin := products.Group("", sessionMW.RequireAdmin)
	admin.POST("", d.Products.CreateProduct)
	admin.PATCH("/:id", d.Products.PatchProduct)
	admin.DELETE("/:id", d.Products.DeleteProduct)

	shoppingCart := api.Group("/cart")
	shoppingCart.GET("", d.Cart.GetCart)
	shoppingCart.POST("/items", d.Cart.AddItem)
	shoppingCart.PATCH("/items/:productId", d.Cart.UpdateItem)
	shoppingCart.DELETE("/items/:productId", d.Cart.RemoveItem)
	shoppingCart.DELETE("", d.Cart.ClearCart)

	api.POST("/checkout", d.Cart.Checkout)
}
