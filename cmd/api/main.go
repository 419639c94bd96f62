package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/rotacerta/rideshare/internal/api/handlers"
	"github.com/rotacerta/rideshare/internal/api/routes"
	"github.com/rotacerta/rideshare/internal/config"
	"github.com/rotacerta/rideshare/internal/service/auth"
	"github.com/rotacerta/rideshare/internal/service/booking"
	"github.com/rotacerta/rideshare/internal/service/rating"
	"github.com/rotacerta/rideshare/internal/service/support"
	"github.com/rotacerta/rideshare/internal/service/trips"
	"github.com/rotacerta/rideshare/pkg/cache"
	"github.com/rotacerta/rideshare/pkg/database"
	"github.com/rotacerta/rideshare/pkg/logger"
	"github.com/rotacerta/rideshare/pkg/monitoring"
	"github.com/rotacerta/rideshare/pkg/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Rota Certa API",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port),
	)

	// Initialize New Relic
	nrApp, err := monitoring.New(monitoring.Config{
		LicenseKey: cfg.NewRelic.LicenseKey,
		AppName:    cfg.NewRelic.AppName,
		Enabled:    cfg.NewRelic.Enabled,
		LogLevel:   cfg.NewRelic.LogLevel,
	})
	if err != nil {
		appLogger.Warn("Failed to initialize New Relic", logger.Err(err))
	} else if nrApp.IsEnabled() {
		appLogger.Info("New Relic APM initialized",
			logger.String("app_name", cfg.NewRelic.AppName))
	} else {
		appLogger.Info("New Relic APM disabled")
	}
	defer nrApp.Shutdown(10 * time.Second)

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cache.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
		DialTimeout: cfg.Redis.DialTimeout,
		ReadTimeout: cfg.Redis.ReadTimeout,
	})
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", logger.Err(err))
	}
	defer cache.Close(redisClient)

	appLogger.Info("Connected to Redis successfully")

	// Initialize PostgreSQL
	postgresDB, err := database.NewPostgresDB(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.MaxConnections,
		MaxIdle:  cfg.Database.MaxIdleConns,
	})
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}
	defer postgresDB.Close()

	appLogger.Info("Connected to PostgreSQL successfully")

	// Initialize document storage
	store, err := storage.New(storage.Config{
		Provider:      cfg.Storage.Provider,
		LocalBasePath: cfg.Storage.LocalBasePath,
		LocalBaseURL:  cfg.Storage.LocalBaseURL,
		S3Region:      cfg.Storage.S3Region,
		S3Bucket:      cfg.Storage.S3Bucket,
		S3CDNDomain:   cfg.Storage.S3CDNDomain,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize document storage", logger.Err(err))
	}

	// Wire services
	authSvc := auth.NewService(postgresDB, store, appLogger, auth.Config{
		JWTSecret: cfg.JWT.Secret,
		JWTExpiry: cfg.JWT.Expiry,
	})
	tripsSvc := trips.NewService(postgresDB, redisClient, appLogger, nrApp, cfg.Cache.TTLTripSearch)
	bookingSvc := booking.NewService(postgresDB, appLogger, nrApp)
	ratingSvc := rating.NewService(postgresDB, appLogger)
	supportSvc := support.NewService(postgresDB, appLogger)

	h := handlers.NewHandlers(authSvc, tripsSvc, bookingSvc, ratingSvc, supportSvc, appLogger)

	// Initialize Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	var nrApplication *newrelic.Application
	if nrApp.IsEnabled() {
		nrApplication = nrApp.Application
	}
	routes.SetupRoutes(router, h, authSvc, nrApplication, cfg.CORS.AllowedOrigins)

	appLogger.Info("Routes configured successfully")

	// Create HTTP server
	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("Server starting", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", logger.Err(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.Err(err))
	}

	appLogger.Info("Server stopped gracefully")
}
