// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"bankreco/internal/domain/columns"
	"bankreco/internal/infrastructure/backend"
	"bankreco/internal/infrastructure/http/v1/handlers"
	"bankreco/internal/infrastructure/http/v1/middleware"
	"bankreco/internal/metadata"
	"bankreco/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// Columns hands out the per-user column visibility registries
	Columns *columns.Service

	// Metadata stores entity definitions
	Metadata *metadata.Registry

	// Backend is the reconciliation REST backend (without session)
	Backend *backend.Client

	// Checks are run by /health/ready
	Checks []handlers.Check

	// Version reported by /health/info
	Version string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Language())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Version, cfg.Checks...)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()

	v1 := router.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(base, cfg.Backend, cfg.Columns)
		protectedAuth := v1.Group("/auth")
		protectedAuth.Use(middleware.Auth(cfg.JWTValidator))
		authHandler.RegisterRoutes(v1.Group("/auth"), protectedAuth)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		handlers.NewColumnsHandler(base, cfg.Columns, cfg.Metadata).RegisterRoutes(protected.Group("/ui"))
		handlers.NewMetadataHandler(base, cfg.Metadata, cfg.Backend).RegisterRoutes(protected.Group("/meta"))
		handlers.NewLookupHandler(base, cfg.Metadata, cfg.Backend).RegisterRoutes(protected.Group("/lookup"))
		handlers.NewReconciliationHandler(base, cfg.Backend).RegisterRoutes(protected.Group("/reco"))
	}

	return router
}
