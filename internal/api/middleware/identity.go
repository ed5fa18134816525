package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/csemotors/dealership/internal/api/metrics"
	"github.com/csemotors/dealership/internal/core/domain"
)

const identityKey = "identity"

// IdentityResolver turns a transport token into the caller's identity.
type IdentityResolver interface {
	Identify(ctx context.Context, token string) domain.Identity
}

// Identity reads the credential cookie on every request and stores the
// resulting identity in the context. It never rejects a request: a missing,
// expired, tampered or revoked token yields an anonymous identity.
func Identity(resolver IdentityResolver, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := domain.Anonymous
			if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
				id = resolver.Identify(c.Request().Context(), cookie.Value)
				if !id.LoggedIn {
					metrics.TokensRejectedTotal.Inc()
				}
			}
			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// IdentityOf returns the identity computed by the Identity middleware, or
// an anonymous identity when the middleware did not run.
func IdentityOf(c echo.Context) domain.Identity {
	id, ok := c.Get(identityKey).(domain.Identity)
	if !ok {
		return domain.Anonymous
	}
	return id
}

// SetIdentity stores id for the rest of the request.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}
