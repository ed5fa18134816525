package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/csemotors/dealership/internal/core/domain"
)

func newGateContext(id domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	SetIdentity(c, id)
	return c, rec
}

func TestRequireAuthenticated_RedirectsAnonymous(t *testing.T) {
	c, rec := newGateContext(domain.Anonymous)

	handler := RequireAuthenticated("/account/login")(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/account/login" {
		t.Fatalf("expected redirect to login, got %q", loc)
	}
}

func TestRequireAuthenticated_Allows(t *testing.T) {
	c, rec := newGateContext(domain.Identity{LoggedIn: true, AccountID: 1, Role: domain.RoleClient})

	called := false
	handler := RequireAuthenticated("/account/login")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected handler to run with 200, called=%v code=%d", called, rec.Code)
	}
}

func TestRequireRole_Allows(t *testing.T) {
	c, _ := newGateContext(domain.Identity{LoggedIn: true, AccountID: 1, Role: domain.RoleAdmin})

	called := false
	handler := RequireRole("/account/login", domain.RoleEmployee, domain.RoleAdmin)(func(c echo.Context) error {
		called = true
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestRequireRole_ForbidsWrongRole(t *testing.T) {
	c, _ := newGateContext(domain.Identity{LoggedIn: true, AccountID: 1, Role: domain.RoleClient})

	handler := RequireRole("/account/login", domain.RoleEmployee, domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})
	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403 HTTPError, got %v", err)
	}
}

func TestRequireRole_AnonymousIsRedirectedNotForbidden(t *testing.T) {
	c, rec := newGateContext(domain.Anonymous)

	handler := RequireRole("/account/login", domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("expected redirect, got error %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
}

func TestGate_EvaluatesRulesByRoute(t *testing.T) {
	gate := NewGate("/account/login",
		Rule{Method: http.MethodGet, Path: "/account/"},
		Rule{Method: http.MethodGet, Path: "/inv/", Roles: []domain.Role{domain.RoleEmployee, domain.RoleAdmin}},
	)

	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("X-Test-Role") != "" {
				SetIdentity(c, domain.Identity{LoggedIn: true, AccountID: 1, Role: domain.Role(c.Request().Header.Get("X-Test-Role"))})
			}
			return next(c)
		}
	})
	e.Use(gate.Middleware())
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/account/", ok)
	e.GET("/inv/", ok)
	e.GET("/inv/detail/:inv_id", ok)

	tests := []struct {
		name string
		path string
		role string
		want int
	}{
		{"public route anonymous", "/inv/detail/3", "", http.StatusOK},
		{"auth route anonymous", "/account/", "", http.StatusFound},
		{"auth route client", "/account/", "client", http.StatusOK},
		{"role route anonymous", "/inv/", "", http.StatusFound},
		{"role route client", "/inv/", "client", http.StatusForbidden},
		{"role route employee", "/inv/", "employee", http.StatusOK},
		{"role route admin", "/inv/", "admin", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.role != "" {
				req.Header.Set("X-Test-Role", tt.role)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestGate_Protected(t *testing.T) {
	gate := NewGate("/account/login", Rule{Method: "post", Path: "/inv/update"})
	if !gate.Protected(http.MethodPost, "/inv/update") {
		t.Fatalf("expected rule to match regardless of method case")
	}
	if gate.Protected(http.MethodGet, "/inv/update") {
		t.Fatalf("rule must be keyed by method")
	}
}
