package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/accounts-service/docs"
	"github.com/99minutos/accounts-service/internal/api/handler"
	"github.com/99minutos/accounts-service/internal/api/middleware"
	"github.com/99minutos/accounts-service/internal/core/domain"
	"github.com/99minutos/accounts-service/internal/core/ports"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Credentials ports.CredentialService
	Directory   ports.UserDirectory
	Tokens      middleware.AccessTokenParser
	// Checks are pinged by the readiness probe, keyed by dependency name.
	Checks map[string]handler.Checker
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Credentials)
	profileHandler := handler.NewProfileHandler(deps.Credentials)
	adminHandler := handler.NewAdminHandler(deps.Directory)
	healthHandler := handler.NewHealthHandler(deps.Checks)
	authMiddleware := middleware.Auth(deps.Tokens)

	users := e.Group("/users")

	// --- Auth routes (public) ---
	users.POST("/auth/register", authHandler.Register)
	users.POST("/auth/login", authHandler.Login)
	users.POST("/auth/refresh", authHandler.Refresh)

	// --- Self-service (any authenticated user) ---
	profile := users.Group("/profile", authMiddleware)
	profile.GET("", profileHandler.Get)
	profile.POST("/update", profileHandler.Update)

	// --- Administration ---
	admin := users.Group("/admin", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/:id", adminHandler.GetUser)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request. The error handler runs
// first so the logged status matches the response.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
