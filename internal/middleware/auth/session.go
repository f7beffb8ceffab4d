package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nutrimart/storefront/pkg/tokens"
)

const SessionCookie = "session"

var (
	errNoSession  = errors.New("missing session")
	errBadSession = errors.New("invalid session")
)

type SessionMiddleware struct {
	JWTSecret []byte
}

func NewSessionMiddleware(secret []byte) *SessionMiddleware {
	return &SessionMiddleware{JWTSecret: secret}
}

func (m *SessionMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.sessionClaims(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		setUserContext(c, claims)
		return next(c)
	}
}

// RequireAdmin rejects every non-admin caller with 403, anonymous ones
// included. Whether a session exists is not disclosed on admin routes.
func (m *SessionMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.sessionClaims(c)
		if err != nil || !claims.IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		setUserContext(c, claims)
		return next(c)
	}
}

func (m *SessionMiddleware) sessionClaims(c echo.Context) (*tokens.SessionClaims, error) {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, errNoSession
	}

	claims, err := tokens.SessionClaimsFromToken(cookie.Value, m.JWTSecret)
	if err != nil || claims == nil {
		c.SetCookie(tokens.DeleteCookie(SessionCookie, "/"))
		return nil, errBadSession
	}
	return claims, nil
}

func setUserContext(c echo.Context, claims *tokens.SessionClaims) {
	c.Set("user_id", claims.Subject)
	c.Set("username", claims.Username)
	c.Set("is_admin", claims.IsAdmin)
}
