package loggingmw

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nutrimart/storefront/pkg/logging"
)

// RequestLogger scopes the base logger to the request and stores it in the
// request context, where handlers pick it up via logging.FromContext. Echo's
// RequestID middleware must be registered before it so the request_id attr
// is populated.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			l := base.With(
				"method", req.Method,
				"route", c.Path(),
				"path", req.URL.Path,
				"remote_ip", c.RealIP(),
			)
			if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
				l = l.With("request_id", rid)
			}

			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			attrs := []any{
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", c.Response().Size,
			}
			switch {
			case status >= 500:
				l.Error("request_completed", attrs...)
			case status >= 400:
				l.Warn("request_completed", attrs...)
			default:
				l.Info("request_completed", attrs...)
			}
			return nil
		}
	}
}
