package main

import (
	"context"
	"fmt"
	"log"
	"lookFeed/app/echo-server/router"
	"lookFeed/business/feed"
	"lookFeed/business/product"
	"lookFeed/internal/middleware"
	bqRepo "lookFeed/internal/repository/bigquery"
	kafkaRepo "lookFeed/internal/repository/kafka"
	"lookFeed/internal/repository/monolith"
	psqlRepo "lookFeed/internal/repository/postgres"
	redisRepo "lookFeed/internal/repository/redis"
	"lookFeed/internal/rest"
	"lookFeed/pkg/config"
	pgdb "lookFeed/pkg/database/postgres"
	redisdb "lookFeed/pkg/database/redis"
	"lookFeed/pkg/logger"
	"lookFeed/pkg/metrics"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting lookFeed ranker", "version", cfg.App.Version)

	metrics.Init()

	db, err := pgdb.NewPostgresDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}

	// Init repo
	productRepo := psqlRepo.NewProductRepository(db)
	historyRepo := redisRepo.NewHistoryRepository(redisClient, cfg.Feed.HistoryTTL)

	// Optional capabilities: analytical fallback, ranking model, event sink
	var analytics feed.ProductLookup
	if cfg.BigQuery.Project != "" && cfg.BigQuery.Dataset != "" {
		bq, err := bqRepo.NewProductRepository(
			context.Background(),
			cfg.BigQuery.Project,
			cfg.BigQuery.Dataset,
			cfg.BigQuery.ProductsTable,
		)
		if err != nil {
			logger.Fatal("Failed to create BigQuery client", "error", err)
		}
		defer bq.Close()
		analytics = bq
		logger.Info("BigQuery hydration fallback enabled", "dataset", cfg.BigQuery.Dataset)
	}

	var scorer feed.Scorer
	if cfg.Monolith.Enabled {
		scorer = monolith.NewClient(
			cfg.Monolith.Host,
			cfg.Monolith.Port,
			cfg.Monolith.ModelName,
			cfg.Monolith.Timeout,
		)
		logger.Info("Monolith scorer enabled", "model", cfg.Monolith.ModelName)
	}

	var events *kafkaRepo.EventRepository
	if cfg.Kafka.Enabled {
		events, err = kafkaRepo.NewEventRepository(kafkaRepo.EventConfig{
			BootstrapServers: cfg.Kafka.BootstrapServers,
			APIKey:           cfg.Kafka.APIKey,
			APISecret:        cfg.Kafka.APISecret,
		})
		if err != nil {
			logger.Fatal("Failed to create Kafka producer", "error", err)
		}
		logger.Info("Kafka event sink enabled")
	}

	// Init service
	var feedEvents feed.EventSink
	var productEvents product.EventSink
	if events != nil {
		feedEvents = events
		productEvents = events
	}
	feedService := feed.NewFeedService(productRepo, historyRepo, analytics, scorer, feedEvents, cfg.Feed)
	productService := product.NewProductService(productRepo, productEvents)

	// Init handler
	feedHandler := rest.NewFeedHandler(feedService, cfg.Feed.DefaultSize, cfg.Feed.MaxSize)
	productHandler := rest.NewProductHandler(productService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	// Setup routes
	router.SetupOpsRoutes(e)
	api := e.Group("/api/v1")
	router.SetupFeedRoutes(api, feedHandler)
	router.SetupProductRoutes(api, productHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if events != nil {
		events.Close()
	}

	if err := redisdb.CloseRedisClient(redisClient); err != nil {
		logger.Error("Redis shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
