package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/fleetpulse/fleet-tracking/docs"
	"github.com/fleetpulse/fleet-tracking/internal/api/handler"
	"github.com/fleetpulse/fleet-tracking/internal/api/middleware"
	"github.com/fleetpulse/fleet-tracking/internal/core/domain"
	"github.com/fleetpulse/fleet-tracking/internal/core/service"
	mongodb "github.com/fleetpulse/fleet-tracking/internal/infrastructure/db/mongo"
	redisdb "github.com/fleetpulse/fleet-tracking/internal/infrastructure/db/redis"
	"github.com/fleetpulse/fleet-tracking/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("fleet"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	busRepo := mongodb.NewBusRepository(db)
	limiter := redisdb.NewSlidingWindowLimiter(rdb)

	tokens := service.NewTokenManager(service.TokenConfig{
		AccessSecret:  cfg.Auth.AccessSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
		Issuer:        cfg.Auth.Issuer,
		Audience:      cfg.Auth.Audience,
		Leeway:        cfg.Auth.Leeway,
	})

	authService := service.NewAuthService(userRepo, tokens, cfg.Auth.BcryptCost, log)
	busService := service.NewBusService(busRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	busHandler := handler.NewBusHandler(busService)

	authMW := middleware.Auth(tokens)
	adminMW := middleware.RBAC(domain.RoleAdmin)

	// Failed logins accumulate against the window; successes do not.
	loginLimit := middleware.RateLimit(limiter, middleware.RateLimitPolicy{
		Scope:        "login",
		Limit:        cfg.RateLimit.LoginLimit,
		Window:       cfg.RateLimit.LoginWindow,
		FailuresOnly: true,
	}, log)
	registerLimit := middleware.RateLimit(limiter, middleware.RateLimitPolicy{
		Scope:  "register",
		Limit:  cfg.RateLimit.RegisterLimit,
		Window: cfg.RateLimit.RegisterWindow,
	}, log)
	apiLimit := middleware.RateLimit(limiter, middleware.RateLimitPolicy{
		Scope:  "api",
		Limit:  cfg.RateLimit.APILimit,
		Window: cfg.RateLimit.APIWindow,
	}, log)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register, registerLimit)
	e.POST("/auth/login", authHandler.Login, loginLimit)
	e.POST("/auth/refresh", authHandler.Refresh, apiLimit)
	e.GET("/auth/me", authHandler.Me, apiLimit, authMW)

	// --- Bus routes ---
	buses := e.Group("/buses", apiLimit, authMW)
	buses.GET("", busHandler.List)
	buses.GET("/:id", busHandler.Get)
	buses.PATCH("/:id/favorite", busHandler.ToggleFavorite)
	buses.POST("", busHandler.Create, adminMW)
	buses.PATCH("/:id", busHandler.Update, adminMW)
	buses.PATCH("/:id/position", busHandler.UpdatePosition, adminMW)
	buses.DELETE("/:id", busHandler.Delete, adminMW)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
