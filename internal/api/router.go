package api

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/csemotors/dealership/internal/api/handler"
	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/api/render"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

// Config carries the transport settings of the site.
type Config struct {
	CookieName     string
	SecureCookies  bool
	TokenTTL       time.Duration
	SessionSecret  string
	LoginRateLimit float64

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// Services are the use-cases and probes the routes call into.
type Services struct {
	Auth      ports.AuthService
	Inventory ports.InventoryService
	Favorites ports.FavoritesService
	Checks    map[string]handler.Check
}

var (
	staff = []domain.Role{domain.RoleEmployee, domain.RoleAdmin}

	// accessRules lists every protected route. Anything not listed is public.
	accessRules = []middleware.Rule{
		{Method: http.MethodGet, Path: "/account/"},
		{Method: http.MethodGet, Path: "/account/update/:account_id"},
		{Method: http.MethodPost, Path: "/account/update"},
		{Method: http.MethodPost, Path: "/account/password"},

		{Method: http.MethodGet, Path: "/inv/", Roles: staff},
		{Method: http.MethodGet, Path: "/inv/add-classification", Roles: staff},
		{Method: http.MethodPost, Path: "/inv/add-classification", Roles: staff},
		{Method: http.MethodGet, Path: "/inv/add-inventory", Roles: staff},
		{Method: http.MethodPost, Path: "/inv/add-inventory", Roles: staff},
		{Method: http.MethodGet, Path: "/inv/edit/:inv_id", Roles: staff},
		{Method: http.MethodPost, Path: "/inv/update", Roles: staff},
		{Method: http.MethodGet, Path: "/inv/delete/:inv_id", Roles: staff},
		{Method: http.MethodPost, Path: "/inv/delete", Roles: staff},

		{Method: http.MethodGet, Path: "/favorites"},
		{Method: http.MethodPost, Path: "/favorites/toggle"},
	}
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg Config, svc Services, log zerolog.Logger) (*echo.Echo, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int((24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: cfg.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health" || c.Path() == "/health/ready"
		},
	}))
	e.Use(session.Middleware(store))
	e.Use(middleware.Identity(svc.Auth, cfg.CookieName))
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.NewGate(handler.LoginPath, accessRules...).Middleware())

	throttle := loginThrottle(cfg.LoginRateLimit)

	// --- Handlers ---
	account := handler.NewAccountHandler(svc.Auth, handler.CookieConfig{
		Name:   cfg.CookieName,
		Secure: cfg.SecureCookies,
		MaxAge: cfg.TokenTTL,
	}, log)
	inventory := handler.NewInventoryHandler(svc.Inventory, svc.Favorites, log)
	favorites := handler.NewFavoritesHandler(svc.Favorites, log)
	health := handler.NewHealthHandler(svc.Checks)

	e.GET("/", inventory.Home)

	// --- Account routes ---
	acct := e.Group("/account")
	acct.GET("/login", account.LoginView)
	acct.POST("/login", account.Login, throttle)
	acct.GET("/register", account.RegisterView)
	acct.POST("/register", account.Register, throttle)
	acct.GET("/logout", account.Logout)
	acct.GET("/", account.Management)
	acct.GET("/update/:account_id", account.UpdateView)
	acct.POST("/update", account.UpdateProfile)
	acct.POST("/password", account.UpdatePassword)

	// --- Inventory routes ---
	inv := e.Group("/inv")
	inv.GET("/type/:classificationId", inventory.ByClassification)
	inv.GET("/detail/:inv_id", inventory.Detail)
	inv.GET("/cause-error", inventory.CauseError)
	inv.GET("/", inventory.Management)
	inv.GET("/add-classification", inventory.AddClassificationView)
	inv.POST("/add-classification", inventory.AddClassification)
	inv.GET("/add-inventory", inventory.AddVehicleView)
	inv.POST("/add-inventory", inventory.AddVehicle)
	inv.GET("/edit/:inv_id", inventory.EditView)
	inv.POST("/update", inventory.UpdateVehicle)
	inv.GET("/delete/:inv_id", inventory.DeleteView)
	inv.POST("/delete", inventory.DeleteVehicle)

	// --- Favorites routes ---
	e.GET("/favorites", favorites.List)
	e.POST("/favorites/toggle", favorites.Toggle)

	// --- Operational (no auth required) ---
	e.GET("/health", health.Liveness)        // liveness: is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: cfg.Gatherer,
	}))

	return e, nil
}

// loginThrottle limits credential posts per client IP.
func loginThrottle(perSecond float64) echo.MiddlewareFunc {
	if perSecond <= 0 {
		perSecond = 5
	}
	return echomiddleware.RateLimiter(echomiddleware.NewRateLimiterMemoryStoreWithConfig(
		echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSecond),
			Burst:     int(math.Ceil(perSecond)) * 2,
			ExpiresIn: 3 * time.Minute,
		},
	))
}
