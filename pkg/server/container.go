package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/AmanMalviya08/Bill-app-backend/internal/adapters/storage"
	"github.com/AmanMalviya08/Bill-app-backend/internal/config"
	"github.com/AmanMalviya08/Bill-app-backend/internal/database"
	"github.com/AmanMalviya08/Bill-app-backend/internal/handlers"
	"github.com/AmanMalviya08/Bill-app-backend/internal/middleware"
	"github.com/AmanMalviya08/Bill-app-backend/internal/repositories/sqlite"
	"github.com/AmanMalviya08/Bill-app-backend/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Services *services.ServiceContainer
	Auth     *middleware.AuthService
	Router   *gin.Engine

	db      *database.ConnectionManager
	archive storage.FileStorage
}

// NewContainer connects the database, builds the report archive and services
// and mounts every route on a fresh engine
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger := config.NewLogger(cfg)

	db := database.NewConnectionManager(cfg.Database.ToConnectionConfig(logger))
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	archive, err := storage.CreateFromConfig(ctx, cfg.Storage.ToStorageConfig(), logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create report storage: %w", err)
	}

	store := sqlite.NewSQLiteRepositoryManager(db.DB(), logger)
	svc, err := services.NewServiceContainer(store, &services.ServiceConfig{
		Reports: services.ReportOptions{
			TopSubcategories: cfg.Reports.TopSubcategories,
			TopClients:       cfg.Reports.TopClients,
			TopSpenders:      cfg.Reports.TopSpenders,
		},
		Archive: archive,
		Logger:  logger,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create service container: %w", err)
	}

	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Services: svc,
		db:       db,
		archive:  archive,
	}
	if cfg.Auth.Secret != "" {
		c.Auth = middleware.NewAuthService(&middleware.AuthConfig{
			JWTSecret:     cfg.Auth.Secret,
			TokenDuration: time.Duration(cfg.Auth.ExpiryHours) * time.Hour,
		})
	}
	c.Router = c.newRouter()

	logger.WithFields(logrus.Fields{
		"environment":  cfg.Environment,
		"storage_type": cfg.Storage.Type,
		"auth_enabled": cfg.Auth.Enabled,
		"mode":         config.GetDeploymentMode(),
	}).Info("application container ready")
	return c, nil
}

func (c *Container) newRouter() *gin.Engine {
	if c.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, &handlers.MiddlewareConfig{
		CORSOrigins: c.Config.CORSOrigins,
	}, c.Logger)

	routes := &handlers.RouterConfig{
		Services:    c.Services,
		AuthService: c.Auth,
		AuthEnabled: c.Config.Auth.Enabled,
		Database:    c.db,
		Logger:      c.Logger,
		Production:  c.Config.IsProduction(),

		RateLimitRPS:   c.Config.RateLimit.RPS,
		RateLimitBurst: c.Config.RateLimit.Burst,
	}
	handlers.SetupRoutes(router, routes)
	if !c.Config.IsProduction() {
		handlers.SetupDevelopmentRoutes(router, routes)
	}
	return router
}

// HealthCheck reports whether the database is usable
func (c *Container) HealthCheck(ctx context.Context) error {
	return c.db.HealthCheck(ctx)
}

// Close releases the report archive and the database connection
func (c *Container) Close() error {
	if c.archive != nil {
		if err := c.archive.Close(); err != nil {
			c.Logger.WithError(err).Warn("failed to close report storage")
		}
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
