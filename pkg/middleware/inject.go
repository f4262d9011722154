package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
)

// Inject decorates every request context, typically to attach the DI
// container so handlers can resolve dependencies with ectoinject.GetContext.
func Inject(decorate func(ctx context.Context) context.Context) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(decorate(req.Context())))
			return next(c)
		}
	}
}
