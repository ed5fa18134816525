package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/csemotors/dealership/internal/api/metrics"
	"github.com/csemotors/dealership/internal/core/domain"
)

// RequireAuthenticated redirects anonymous callers to loginPath before the
// handler runs.
func RequireAuthenticated(loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !IdentityOf(c).LoggedIn {
				metrics.AccessDeniedTotal.WithLabelValues("unauthenticated").Inc()
				return c.Redirect(http.StatusFound, loginPath)
			}
			return next(c)
		}
	}
}

// RequireRole applies RequireAuthenticated and then rejects callers whose
// role is not in roles with 403.
func RequireRole(loginPath string, roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	authenticated := RequireAuthenticated(loginPath)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return authenticated(func(c echo.Context) error {
			if _, ok := allowed[IdentityOf(c).Role]; !ok {
				metrics.AccessDeniedTotal.WithLabelValues("role").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		})
	}
}

// Rule protects one route. An empty Roles list only requires a logged-in
// caller.
type Rule struct {
	Method string
	Path   string
	Roles  []domain.Role
}

// Gate evaluates every route's access rule in one place. Routes without a
// rule are public.
type Gate struct {
	guards map[string]echo.MiddlewareFunc
}

// NewGate compiles rules into guards. loginPath is where anonymous callers
// are sent.
func NewGate(loginPath string, rules ...Rule) *Gate {
	g := &Gate{guards: make(map[string]echo.MiddlewareFunc, len(rules))}
	for _, r := range rules {
		guard := RequireAuthenticated(loginPath)
		if len(r.Roles) > 0 {
			guard = RequireRole(loginPath, r.Roles...)
		}
		g.guards[ruleKey(r.Method, r.Path)] = guard
	}
	return g
}

// Middleware must run after routing so that c.Path() holds the matched
// route pattern.
func (g *Gate) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			guard, ok := g.guards[ruleKey(c.Request().Method, c.Path())]
			if !ok {
				return next(c)
			}
			return guard(next)(c)
		}
	}
}

// Protected reports whether a rule exists for method and path.
func (g *Gate) Protected(method, path string) bool {
	_, ok := g.guards[ruleKey(method, path)]
	return ok
}

func ruleKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}
