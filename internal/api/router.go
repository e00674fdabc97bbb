package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/coursin/marketing-api/docs"
	"github.com/coursin/marketing-api/internal/api/handler"
	"github.com/coursin/marketing-api/internal/api/middleware"
	"github.com/coursin/marketing-api/internal/core/ports"
	"github.com/coursin/marketing-api/internal/core/ratelimit"
	"github.com/coursin/marketing-api/internal/pkg/config"
)

// Dependencies carries everything the router needs. All of it is injectable
// so tests can run the full HTTP surface against in-memory implementations.
type Dependencies struct {
	Config         *config.Config
	AuthService    ports.AuthService
	ContactService ports.ContactService
	Tokens         middleware.TokenVerifier
	Limiter        ratelimit.Limiter

	// Mongo and Redis may be nil (memory-store deployments); the readiness
	// probe reports them as disabled.
	Mongo *mongo.Database
	Redis *redis.Client

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("coursin"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     deps.Config.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	contactHandler := handler.NewContactHandler(deps.ContactService, deps.Limiter, deps.Config.RateLimit.Window)
	authRequired := middleware.Auth(deps.Tokens, deps.AuthService)
	contactLimited := middleware.RateLimit(deps.Limiter, deps.Config.RateLimit.Limit, deps.Log)

	// --- Auth routes ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)
	e.GET("/api/auth/profile", authHandler.Profile, authRequired)
	e.PUT("/api/auth/profile", authHandler.UpdateProfile, authRequired)

	// --- Contact routes ---
	e.POST("/api/contact", contactHandler.Submit, contactLimited)
	e.GET("/api/contact/rate-limit", contactHandler.RateLimitStatus)

	// --- Health probes and operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/api/health", healthHandler.Liveness)
	e.GET("/api/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	if deps.Config.IsDevelopment() {
		e.GET("/swagger/*", echoswagger.WrapHandler)
	}

	return e
}
