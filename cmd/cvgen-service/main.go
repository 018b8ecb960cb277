package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cvlab-ar/cvgen-service/internal/api/handler"
	"github.com/cvlab-ar/cvgen-service/internal/api/router"
	"github.com/cvlab-ar/cvgen-service/internal/config"
	"github.com/cvlab-ar/cvgen-service/internal/generator"
	"github.com/cvlab-ar/cvgen-service/internal/queue"
	"github.com/cvlab-ar/cvgen-service/internal/submission"
	"github.com/cvlab-ar/cvgen-service/internal/worker"
	"github.com/cvlab-ar/cvgen-service/shared/logger"
	"github.com/cvlab-ar/cvgen-service/shared/postgresql"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	// Parse command-line flags
	defaultConfigPath := os.Getenv("CVGEN_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	appLogger, err := initLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger.Info("Starting CV generation service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	// Initialize PostgreSQL client
	dbClient, err := initPostgreSQL(&cfg.Database, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	appLogger.Info("Database connection established")

	submissionStore := submission.NewPostgresStore(dbClient.GetDB())
	jobQueue := queue.NewManager(appLogger.Logger)

	genClient := generator.NewClient(&generator.Config{
		APIKey:            cfg.Groq.APIKey,
		BaseURL:           cfg.Groq.BaseURL,
		Model:             cfg.Groq.Model,
		Temperature:       cfg.Groq.Temperature,
		MaxTokens:         cfg.Groq.MaxTokens,
		MaxRetries:        cfg.Groq.MaxRetries,
		RetryInitialDelay: cfg.Groq.RetryInitialDelay,
		RequestTimeout:    cfg.Groq.RequestTimeout,
	}, appLogger.Logger)

	if !genClient.Configured() {
		appLogger.Warn("GROQ_API_KEY is not set; enqueue requests will be rejected until it is configured")
	}

	// Start the AI worker loop
	aiWorker := worker.NewWorker(&worker.Config{
		Logger:          appLogger.Logger,
		Queue:           jobQueue,
		Submissions:     submissionStore,
		Generator:       genClient,
		Interval:        cfg.Worker.ProcessingInterval,
		CleanupInterval: cfg.Worker.CleanupInterval,
		CleanupMaxAge:   cfg.Worker.CleanupMaxAge,
	})

	workerCtx, workerCancel := context.WithCancel(context.Background())
	aiWorker.Start(workerCtx)

	appLogger.Info("AI worker started",
		slog.Duration("processing_interval", cfg.Worker.ProcessingInterval),
		slog.Duration("cleanup_interval", cfg.Worker.CleanupInterval),
	)

	// Initialize router
	r := initRouter(cfg, appLogger.Logger, jobQueue, submissionStore, genClient, dbClient)

	// Create HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	appLogger.Info("Starting HTTP server",
		slog.String("address", addr),
		slog.Duration("read_timeout", cfg.Server.ReadTimeout),
		slog.Duration("write_timeout", cfg.Server.WriteTimeout),
	)

	// Start server in goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed to start",
				slog.Any("error", err),
			)
			os.Exit(1)
		}
	}()

	appLogger.Info("CV generation service is running",
		slog.String("address", addr),
	)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout. Stop accepting HTTP traffic first,
	// then the worker, then close the database.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)

	cleanup := func() {
		cancel()
		workerCancel()
		aiWorker.Stop()
		if dbClient != nil {
			dbClient.Close()
		}
	}
	defer cleanup()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown",
			slog.Any("error", err),
		)
		return err
	}

	appLogger.Info("Server shutdown complete")
	return nil
}

// initLogger initializes and configures the application logger
func initLogger(cfg *config.LoggingConfig) (*logger.Logger, error) {
	loggerCfg := &logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableCaller,
		TimeFormat:   time.RFC3339,
	}

	return logger.New(loggerCfg)
}

// initPostgreSQL initializes the PostgreSQL database client
func initPostgreSQL(cfg *config.DatabaseConfig, logger *slog.Logger) (*postgresql.Client, error) {
	dbConfig := &postgresql.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		Database:        cfg.Database,
		SSLMode:         cfg.SSLMode,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}

	return postgresql.NewClient(dbConfig, logger)
}

// initRouter initializes the Gin router with all routes and middleware
func initRouter(cfg *config.Config, logger *slog.Logger, jobQueue *queue.Manager, store submission.Store, genClient *generator.Client, dbClient *postgresql.Client) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	handlerDeps := &handler.Dependencies{
		Logger:               logger,
		Queue:                jobQueue,
		Submissions:          store,
		Generator:            genClient,
		DB:                   dbClient,
		EstimatedWaitPerSlot: cfg.Worker.EstimatedWaitPerSlot,
	}

	return router.SetupRouter(handlerDeps)
}
