package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/sfoudy/golf-sweepstakes/internal/api"
	"github.com/sfoudy/golf-sweepstakes/internal/api/handlers"
	"github.com/sfoudy/golf-sweepstakes/internal/api/middleware"
	"github.com/sfoudy/golf-sweepstakes/internal/providers"
	"github.com/sfoudy/golf-sweepstakes/internal/services"
	"github.com/sfoudy/golf-sweepstakes/pkg/config"
	"github.com/sfoudy/golf-sweepstakes/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logrus.StandardLogger()

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Connect to Redis; the feed falls back to its in-process cache when
	// redis is down, so this is a warning, not a startup failure.
	var cacheService *services.CacheService
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logrus.Warnf("Redis unavailable, running with in-process cache only: %v", err)
	} else {
		cacheService = services.NewCacheService(redisClient)
		defer redisClient.Close()
	}

	// Live feed pipeline
	espnClient := providers.NewESPNClient(cfg.FeedTimeout, logger)
	feedService := services.NewFeedService(espnClient, cacheService, logger, services.FeedConfig{
		TTL:        cfg.FeedCacheTTL,
		MaxRetries: cfg.FeedMaxRetries,
		RetryDelay: cfg.FeedRetryDelay,
	})

	// WebSocket hub for pushed feed updates
	wsHub := services.NewWebSocketHub(logger)
	go wsHub.Run()

	// Background feed warming during tournament play
	var refresher *services.FeedRefresher
	if cfg.EnableFeedRefresher {
		refresher = services.NewFeedRefresher(db, feedService, wsHub, logger, cfg.FeedRefreshInterval)
		if err := refresher.Start(); err != nil {
			logrus.Errorf("Failed to start feed refresher: %v", err)
		} else {
			defer refresher.Stop()
		}
	}

	// Invite SMS provider
	var smsService services.SMSService
	if cfg.SMSProvider == "twilio" && cfg.TwilioAccountSID != "" {
		limiter := services.NewPhoneRateLimiter(cfg.SMSPerHourLimit, time.Hour)
		smsService = services.NewTwilioSMSService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, limiter, logger)
		logrus.Info("Using Twilio SMS provider")
	} else {
		smsService = services.NewMockSMSService(logger)
		logrus.Info("Using mock SMS provider")
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	// Health check endpoint
	healthHandler := handlers.NewHealthHandler(refresher)
	router.GET("/health", healthHandler.GetHealth)

	// Setup API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, db, cacheService, feedService, smsService, cfg, logger)

	// WebSocket endpoint at root level
	wsHandler := handlers.NewWebSocketHandler(wsHub, logger)
	router.GET("/ws", wsHandler.HandleWebSocket)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
