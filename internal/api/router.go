package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/inventorio/inventory-api/docs"
	"github.com/inventorio/inventory-api/internal/api/handler"
	"github.com/inventorio/inventory-api/internal/api/middleware"
	"github.com/inventorio/inventory-api/internal/core/domain"
	"github.com/inventorio/inventory-api/internal/core/ports"
	"github.com/inventorio/inventory-api/internal/core/service"
	mongouser "github.com/inventorio/inventory-api/internal/infrastructure/db/mongo"
	redisstore "github.com/inventorio/inventory-api/internal/infrastructure/db/redis"
)

// RouterConfig carries the request-layer settings NewRouter needs beyond its
// collaborators.
type RouterConfig struct {
	Cookie   handler.CookieConfig
	StateTTL time.Duration
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, provider ports.IdentityProvider, cfg RouterConfig, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("inventory"))

	// --- Dependencies ---
	userRepo := mongouser.NewUserRepository(db)
	sessionStore := redisstore.NewSessionStore(rdb, cfg.Cookie.TTL)
	stateStore := redisstore.NewStateStore(rdb, cfg.StateTTL)
	authService := service.NewAuthService(userRepo, sessionStore, log)

	authHandler := handler.NewAuthHandler(authService, cfg.Cookie)
	oauthHandler := handler.NewOAuthHandler(provider, stateStore, authService, cfg.Cookie, log)
	usersHandler := handler.NewUsersHandler(userRepo)
	sessionRequired := middleware.Session(sessionStore, cfg.Cookie.Name)

	// --- Auth routes ---
	users := e.Group("/api/users")
	users.POST("/create", authHandler.Create)
	users.POST("/login", authHandler.Login)
	users.POST("/logout", authHandler.Logout)
	users.GET("/google-login", oauthHandler.GoogleLogin)
	users.GET("/google-callback", oauthHandler.GoogleCallback)
	users.GET("/me", authHandler.Me, sessionRequired)
	users.GET("", usersHandler.List, sessionRequired, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational surfaces ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
