package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nutrimart/storefront/internal/cart"
	"github.com/nutrimart/storefront/internal/service"
	"github.com/nutrimart/storefront/internal/transport"
	"github.com/nutrimart/storefront/pkg/logging"
	"github.com/nutrimart/storefront/pkg/tokens"
)

const cartCookie = "cart_session"

type CartHTTP struct {
	Carts       *cart.Manager
	Catalog     *service.CatalogService
	CheckoutSvc *service.CheckoutService

	// SessionTTL bounds the cart cookie lifetime; it matches the manager's
	// idle TTL.
	SessionTTL time.Duration
}

// sessionCart resolves the caller's cart, minting a session cookie on first
// contact. Login is not required to shop.
func (h *CartHTTP) sessionCart(c echo.Context) *cart.Cart {
	var sessionID string
	if ck, err := c.Cookie(cartCookie); err == nil && ck.Value != "" {
		sessionID = ck.Value
	} else {
		sessionID = h.Carts.NewSessionID()
		c.SetCookie(tokens.CreateCookie(cartCookie, sessionID, "/", time.Now().Add(h.SessionTTL)))
	}
	return h.Carts.Get(c.Request().Context(), sessionID)
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	shoppingCart := h.sessionCart(c)
	return c.JSON(http.StatusOK, transport.NewCartResponse(shoppingCart.Summary()))
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID <= 0 {
		l.Warn("add_item_error", "status", 400, "reason", "productId required")
		return echo.NewHTTPError(http.StatusBadRequest, "productId required")
	}

	prod, err := h.Catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("add_item_error", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("add_item_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add to cart")
	}

	shoppingCart := h.sessionCart(c)
	shoppingCart.Add(*prod)

	l.Info("add_item_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, transport.NewCartResponse(shoppingCart.Summary()))
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		l.Warn("update_item_error", "status", 400, "reason", "productId is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "productId is not an integer")
	}

	var req transport.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Quantity == nil {
		l.Warn("update_item_error", "status", 400, "reason", "quantity required")
		return echo.NewHTTPError(http.StatusBadRequest, "quantity required")
	}

	shoppingCart := h.sessionCart(c)
	shoppingCart.UpdateQuantity(productID, *req.Quantity)

	return c.JSON(http.StatusOK, transport.NewCartResponse(shoppingCart.Summary()))
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.remove_item")

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		l.Warn("remove_item_error", "status", 400, "reason", "productId is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "productId is not an integer")
	}

	shoppingCart := h.sessionCart(c)
	shoppingCart.Remove(productID)

	return c.JSON(http.StatusOK, transport.NewCartResponse(shoppingCart.Summary()))
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	shoppingCart := h.sessionCart(c)
	shoppingCart.Clear()
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	shoppingCart := h.sessionCart(c)

	receipt, err := h.CheckoutSvc.Checkout(ctx, shoppingCart, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownPayment):
			l.Warn("checkout_error", "status", 400, "reason", "unknown payment method")
			return echo.NewHTTPError(http.StatusBadRequest, "unknown payment method")
		case errors.Is(err, service.ErrEmptyCart):
			l.Warn("checkout_error", "status", 400, "reason", "cart is empty")
			return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
		default:
			l.Error("checkout_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "checkout failed")
		}
	}

	l.Info("checkout_success", "order_ref", receipt.OrderRef, "total", receipt.Total.StringFixed(2))
	return c.JSON(http.StatusOK, transport.CheckoutResponse{
		OrderRef:      receipt.OrderRef,
		PaymentMethod: receipt.PaymentMethod,
		Subtotal:      receipt.Subtotal.StringFixed(2),
		DeliveryFee:   receipt.DeliveryFee.StringFixed(2),
		Total:         receipt.Total.StringFixed(2),
		Status:        receipt.Status,
	})
}
