package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/myflix/movie-api/internal/api/metrics"
	"github.com/myflix/movie-api/internal/core/domain"
	"github.com/myflix/movie-api/internal/core/ports"
	"github.com/myflix/movie-api/pkg/logger"
)

// IdentityKey is the echo context key holding the admitted *domain.Identity.
const IdentityKey = "identity"

type identityCtxKey struct{}

// Auth admits a request only when the guard resolves its bearer token to a
// stored user. The identity is attached to both the echo context and the
// request context; rejections are returned to the error handler untouched.
func Auth(guard ports.AccessGuard, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			identity, err := guard.Authorize(req.Context(), req.Header.Get(echo.HeaderAuthorization))
			if err != nil {
				reason := domain.RejectionReason(err)
				metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
				reqLog := logger.FromContext(req.Context(), log)
				reqLog.Debug().
					Err(err).
					Str("reason", reason).
					Str("path", c.Path()).
					Msg("request rejected by access guard")
				return err
			}

			c.Set(IdentityKey, identity)
			c.SetRequest(req.WithContext(WithIdentity(req.Context(), identity)))
			return next(c)
		}
	}
}

// IdentityFrom returns the identity attached by Auth.
func IdentityFrom(c echo.Context) (*domain.Identity, bool) {
	identity, ok := c.Get(IdentityKey).(*domain.Identity)
	return identity, ok && identity != nil
}

func WithIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (*domain.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(*domain.Identity)
	return identity, ok && identity != nil
}
