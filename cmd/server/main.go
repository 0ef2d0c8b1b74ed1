package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/edaplatform/eda-api/application/usecase"
	"github.com/edaplatform/eda-api/infrastructure/adapter/postgres"
	"github.com/edaplatform/eda-api/infrastructure/config"
	"github.com/edaplatform/eda-api/infrastructure/http/handler"
	"github.com/edaplatform/eda-api/infrastructure/http/server"
	"github.com/edaplatform/eda-api/infrastructure/service/cache"
	"github.com/edaplatform/eda-api/infrastructure/service/logger"
	"github.com/edaplatform/eda-api/migrations"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logger
	structuredLogger := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "eda-api",
	})
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"env":             cfg.Environment,
		"database_driver": cfg.DatabaseDriver,
		"cache_driver":    cfg.CacheDriver,
	})

	// Connect to database
	db, err := postgres.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to connect to database", err, map[string]interface{}{
			"database_driver": cfg.DatabaseDriver,
		})
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	structuredLogger.Info(ctx, "Database connection established", map[string]interface{}{
		"database_driver": cfg.DatabaseDriver,
	})

	if cfg.AutoMigrate {
		fsys, err := migrations.ForDriver(cfg.DatabaseDriver)
		if err != nil {
			log.Fatalf("Failed to load migrations: %v", err)
		}
		applied, err := postgres.Migrate(ctx, db, fsys)
		if err != nil {
			structuredLogger.Error(ctx, "Failed to apply migrations", err, map[string]interface{}{})
			log.Fatalf("Failed to apply migrations: %v", err)
		}
		structuredLogger.Info(ctx, "Migrations applied", map[string]interface{}{"applied": applied})
	}

	// Initialize representation cache (Redis, in-process or disabled based on config)
	cacheLogger := logrus.New()
	representationCache, err := cache.NewRepresentationCache(cache.CacheConfig{
		Driver:    cfg.CacheDriver,
		RedisURL:  cfg.RedisURL,
		KeyPrefix: cfg.CacheKeyPrefix,
	}, cacheLogger)
	if err != nil {
		structuredLogger.Warn(ctx, "Representation cache unavailable, serving uncached", map[string]interface{}{
			"cache_driver": cfg.CacheDriver,
			"error":        err.Error(),
		})
		representationCache = cache.NewNoopCache()
	}

	// Initialize repositories
	organizationRepo := postgres.NewOrganizationRepositoryAdapter(db)
	projectRepo := postgres.NewProjectRepositoryAdapter(db)
	rulebookRepo := postgres.NewRulebookRepositoryAdapter(db)
	auditRepos := usecase.AuditRepositories{
		Rules:               postgres.NewAuditRuleRepositoryAdapter(db),
		Actions:             postgres.NewAuditActionRepositoryAdapter(db),
		Events:              postgres.NewAuditEventRepositoryAdapter(db),
		Organizations:       organizationRepo,
		ActivationInstances: postgres.NewActivationInstanceRepositoryAdapter(db),
	}

	// Initialize use cases
	rulebookUseCase := usecase.NewRulebookUseCase(rulebookRepo, projectRepo, organizationRepo, structuredLogger)
	auditUseCase := usecase.NewAuditUseCase(auditRepos, representationCache, cfg.CacheTTL, structuredLogger)

	// Initialize handlers
	router := server.NewRouter(structuredLogger,
		handler.NewRulebookHandler(rulebookUseCase, structuredLogger),
		handler.NewAuditHandler(auditUseCase, cfg.DefaultOrganizationID, structuredLogger),
	)

	srv := server.New(server.Config{
		Addr:                 cfg.Addr(),
		ReadTimeout:          cfg.ServerReadTimeout,
		WriteTimeout:         cfg.ServerWriteTimeout,
		IdleTimeout:          cfg.ServerIdleTimeout,
		CORSEnabled:          cfg.CORSEnabled,
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
		CORSAllowCredentials: cfg.CORSAllowCredentials,
	}, structuredLogger, router)

	// Start server in goroutine
	go func() {
		if err := srv.Start(ctx); err != nil && err != http.ErrServerClosed {
			structuredLogger.Error(ctx, "Server failed to start", err, map[string]interface{}{
				"addr": cfg.Addr(),
			})
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Server forced to shutdown", err, map[string]interface{}{})
	}
	structuredLogger.Info(ctx, "Server exited", map[string]interface{}{})
}
