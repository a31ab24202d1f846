package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/sp23/transit-system/docs"
	"github.com/sp23/transit-system/internal/api/handler"
	"github.com/sp23/transit-system/internal/api/middleware"
	"github.com/sp23/transit-system/internal/core/domain"
	"github.com/sp23/transit-system/internal/core/ports"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Auth     ports.AuthService
	Stations ports.StationService
	Users    ports.UserService
	Logger   zerolog.Logger
	Cookie   handler.CookieConfig
	// Readiness checks keyed by dependency name. Empty means always ready.
	Readiness map[string]handler.CheckFunc
	// EnableMetrics installs the Prometheus middleware and GET /metrics. The
	// middleware registers collectors globally, so enable it once per process.
	EnableMetrics bool
	EnableSwagger bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	if deps.EnableMetrics {
		e.Use(echoprometheus.NewMiddleware("transit_http"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Health probes (no auth required) ---
	health := handler.NewHealthHandler(deps.Readiness, deps.Logger)
	e.GET("/health", health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness – are dependencies up?

	if deps.EnableSwagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	authHandler := handler.NewAuthHandler(deps.Auth, deps.Cookie)
	stationHandler := handler.NewStationHandler(deps.Stations)
	userHandler := handler.NewUserHandler(deps.Users)

	requireAuth := middleware.RequireAuth()
	requireAdmin := middleware.RequireRole(domain.RoleAdmin)

	apiGroup := e.Group("/api", middleware.Session(deps.Auth, deps.Cookie.Name))

	// --- Auth routes ---
	authGroup := apiGroup.Group("/authentication")
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authHandler.Me, requireAuth)
	authGroup.POST("/logout", authHandler.Logout, requireAuth)

	// --- Stations: reads are public, ownership is checked in the service ---
	stations := apiGroup.Group("/stations")
	stations.GET("", stationHandler.List)
	stations.GET("/:id", stationHandler.Get)
	stations.POST("", stationHandler.Create, requireAdmin)
	stations.PUT("/:id", stationHandler.Update, requireAuth)
	stations.DELETE("/:id", stationHandler.Delete, requireAuth)

	// --- Users ---
	apiGroup.POST("/users", userHandler.Create, requireAdmin)

	return e
}
