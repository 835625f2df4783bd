package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/myflix/movie-api/internal/core/domain"
)

// SelfOnly restricts a route to the account named by the given path parameter.
// It must run after Auth.
func SelfOnly(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrMissingToken
			}
			if identity.Username != c.Param(param) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
