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
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/finsight/market-analysis-go/internal/ai"
	"github.com/finsight/market-analysis-go/internal/analysis"
	"github.com/finsight/market-analysis-go/internal/api"
	"github.com/finsight/market-analysis-go/internal/api/handlers"
	"github.com/finsight/market-analysis-go/internal/config"
	"github.com/finsight/market-analysis-go/internal/database"
	"github.com/finsight/market-analysis-go/internal/extraction"
	"github.com/finsight/market-analysis-go/internal/marketdata"
	"github.com/finsight/market-analysis-go/internal/repository"
	"github.com/finsight/market-analysis-go/internal/services"
)

const version = "1.0.0"

func main() {
	// Load .env in development, ignore when absent
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg)

	// Optional infrastructure
	var db *database.PostgresDB
	if cfg.Database.Enabled {
		db, err = database.NewPostgresConnection(cfg.Database)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
	}

	var redisClient *database.RedisClient
	if cfg.Redis.Enabled {
		redisClient, err = database.NewRedisConnection(cfg.Redis)
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
	}

	// Outbound clients
	aiClient := ai.NewClient(&cfg.AI, logger)
	defer func() { _ = aiClient.Close() }()
	if !aiClient.Configured() {
		logger.Warn("AI endpoint not configured, analysis endpoints will serve defaults")
	}

	marketClient := marketdata.NewClient(&cfg.MarketData, logger)
	defer func() { _ = marketClient.Close() }()
	if !marketClient.Configured() {
		logger.Warn("Market data API key not configured, running in mock mode")
	}

	// Domain services
	normalizer := analysis.NewNormalizer(logger, indicatorDefaults(cfg), cfg.Extraction.ScoreDefault)
	analysisService := analysis.NewService(aiClient, normalizer, logger)
	indicatorService := services.NewIndicatorService(marketClient, logger)

	var analysisRepo *repository.AnalysisRepository
	if db != nil {
		analysisRepo = repository.NewAnalysisRepository(db.Pool)
		schemaCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := analysisRepo.EnsureSchema(schemaCtx); err != nil {
			cancel()
			logger.Fatalf("Failed to prepare analysis schema: %v", err)
		}
		cancel()
	}

	cacheTTL, err := time.ParseDuration(cfg.Redis.CacheTTL)
	if err != nil {
		logger.WithError(err).Warn("invalid cache TTL, using 5m")
		cacheTTL = 5 * time.Minute
	}

	// HTTP layer
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	api.SetupRoutes(router, cfg.Server.AllowedOrigins, api.Handlers{
		Analysis: handlers.NewAnalysisHandler(analysisService, redisClient, analysisRepo, cacheTTL, logger),
		Stock:    handlers.NewStockHandler(marketClient, aiClient, indicatorService, logger),
		Health:   handlers.NewHealthHandler(db, redisClient, aiClient.Configured, marketClient.Configured, version),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Infof("Server starting on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.Environment == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

func indicatorDefaults(cfg *config.Config) extraction.IndicatorDefaults {
	return extraction.IndicatorDefaults{
		RSI:        cfg.Extraction.RSIDefault,
		MACD:       cfg.Extraction.MACDDefault,
		Support:    cfg.Extraction.SupportDefault,
		Resistance: cfg.Extraction.ResistanceDefault,
		MA50:       cfg.Extraction.MA50Default,
		MA200:      cfg.Extraction.MA200Default,
	}
}
