package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/bmohak/echo/internal/api"
	"github.com/bmohak/echo/internal/cache"
	"github.com/bmohak/echo/internal/db"
	"github.com/bmohak/echo/internal/ratelimit"
	"github.com/bmohak/echo/internal/services"
	"github.com/bmohak/echo/pkg/config"
	"github.com/bmohak/echo/pkg/logging"
	"github.com/bmohak/echo/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Echo API Server")

	// Initialize error reporting
	if cfg.Sentry.DSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		})
		if err != nil {
			logger.Fatal("Failed to initialize sentry", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Connect to the database and apply the schema
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Connect to Redis (nil cache when disabled)
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisCache.Close()

	limiters := buildLimiters(&cfg.RateLimit, redisCache)

	// Create Gin router
	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(api.RequestLogger())
	if cfg.Sentry.DSN != "" {
		engine.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	router := api.NewRouter(database, redisCache, cfg, limiters)
	router.SetupRoutes(engine)

	// Hourly cleanup of stale read notifications
	notify := services.NewNotifyService(db.NewRepository(database.DB))
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		notify.PurgeRead(ctx)
	}); err != nil {
		logger.Fatal("Failed to schedule cleanup job", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: engine,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// buildLimiters wires the per-surface limiters over the Redis counters.
// With rate limiting disabled or no cache, every limiter is nil and the
// middleware passes everything through.
func buildLimiters(cfg *config.RateLimitConfig, counter *cache.Cache) api.Limiters {
	if !cfg.Enabled || counter == nil {
		return api.Limiters{}
	}
	return api.Limiters{
		Write:        ratelimit.New(counter, "write", cfg.WritePerMinute, time.Minute),
		Read:         ratelimit.New(counter, "read", cfg.ReadPerMinute, time.Minute),
		Signup:       ratelimit.New(counter, "signup", cfg.SignupPerHour, time.Hour),
		Availability: ratelimit.New(counter, "availability", cfg.AvailabilityPerMinute, time.Minute),
		Verify:       ratelimit.New(counter, "verify", cfg.VerifyPerMinute, time.Minute),
	}
}
