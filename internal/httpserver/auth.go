package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	authmw "github.com/nutrimart/storefront/internal/middleware/auth"
	"github.com/nutrimart/storefront/internal/service"
	"github.com/nutrimart/storefront/internal/transport"
	"github.com/nutrimart/storefront/pkg/logging"
	"github.com/nutrimart/storefront/pkg/tokens"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Password)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			l.Warn("register_error", "status", 400, "reason", "validation failed")
			return validationResponse(c, verr)
		case errors.Is(err, service.ErrUserExists):
			l.Warn("register_error", "status", 409, "reason", "username taken")
			return echo.NewHTTPError(http.StatusConflict, "username already taken")
		default:
			l.Error("register_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "register failed")
		}
	}

	// Log the fresh account in right away, like the storefront's register
	// form does.
	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot start session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "register failed")
	}
	c.SetCookie(tokens.CreateCookie(authmw.SessionCookie, res.Token, "/", res.Expires))

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	c.SetCookie(tokens.CreateCookie(authmw.SessionCookie, res.Token, "/", res.Expires))

	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, res.User)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth.logout")

	c.SetCookie(tokens.DeleteCookie(authmw.SessionCookie, "/"))

	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) CurrentUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.current_user")

	sub, _ := c.Get("user_id").(string)
	id, err := strconv.Atoi(sub)
	if err != nil {
		l.Warn("current_user_error", "status", 401, "reason", "invalid subject")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}

	user, err := h.Svc.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("current_user_error", "status", 401, "reason", "user no longer exists")
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
		}
		l.Error("current_user_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load user")
	}

	return c.JSON(http.StatusOK, user)
}
