package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-sentiment-tracker/internal/worker/config"
	"stock-sentiment-tracker/internal/worker/repository"
	"stock-sentiment-tracker/internal/worker/service"
	"stock-sentiment-tracker/internal/worker/strategy"
	"stock-sentiment-tracker/pkg/logger"
	"stock-sentiment-tracker/pkg/postgres"
	"stock-sentiment-tracker/pkg/redis"
	"stock-sentiment-tracker/pkg/telegram"

	"google.golang.org/genai"

	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the worker service",
	Run: func(cmd *cobra.Command, args []string) {
		runWorker(false)
	},
}

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Claims and executes at most one task, then exits",
	Long:  "Exits 0 when a task was executed, 1 when the queue was empty.",
	Run: func(cmd *cobra.Command, args []string) {
		runWorker(true)
	},
}

func runWorker(once bool) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Worker Service", logger.Field("name", cfg.App.Name))

	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Repositories
	taskRepo := repository.NewTaskRepository(db.DB)
	trackedStockRepo := repository.NewTrackedStockRepository(db.DB)
	newsItemRepo := repository.NewNewsItemRepository(db.DB)
	itemScoreRepo := repository.NewItemScoreRepository(db.DB)
	priceBarRepo := repository.NewPriceBarRepository(db.DB)
	dailyAggRepo := repository.NewDailyAggregateRepository(db.DB)
	metricRepo := repository.NewWindowedMetricRepository(db.DB)
	currentPriceRepo := repository.NewCurrentPriceRepository(db.DB)

	newsSource, err := repository.NewNewsFeedRepository(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize news feed repository", logger.ErrorField(err))
	}
	priceSource, err := repository.NewYahooFinanceRepository(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize Yahoo Finance repository", logger.ErrorField(err))
	}

	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini client", logger.ErrorField(err))
	}
	scorer, err := repository.NewGeminiScorerRepository(cfg, appLogger, genAiClient)
	if err != nil {
		appLogger.Fatal("Failed to initialize sentiment scorer", logger.ErrorField(err))
	}

	var notifier telegram.Notifier = telegram.NoopNotifier{}
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	pipelineSvc := service.NewPipelineService(
		appLogger,
		redisClient.Client,
		newsSource,
		priceSource,
		scorer,
		newsItemRepo,
		itemScoreRepo,
		priceBarRepo,
		dailyAggRepo,
		metricRepo,
		currentPriceRepo,
	)

	strategies := []strategy.TaskExecutionStrategy{
		strategy.NewRefreshStockStrategy(appLogger, pipelineSvc),
		strategy.NewBackfillStockStrategy(appLogger, pipelineSvc),
		strategy.NewDailyUpdateAllStrategy(appLogger, pipelineSvc, trackedStockRepo),
		strategy.NewBackfillDefaultsStrategy(appLogger, pipelineSvc),
	}

	pollInterval, err := time.ParseDuration(cfg.Worker.PollInterval)
	if err != nil {
		appLogger.Fatal("Invalid poll interval", logger.ErrorField(err))
	}

	workerSvc := service.NewWorkerService(taskRepo, strategies, notifier, appLogger, pollInterval)

	if once {
		ran, err := workerSvc.RunOnce(ctx)
		if err != nil {
			appLogger.Fatal("Task execution failed", logger.ErrorField(err))
		}
		if !ran {
			appLogger.Info("No pending tasks")
			os.Exit(1)
		}
		return
	}

	workerSvc.Run(ctx)
	appLogger.Info("Worker service exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "worker-service"}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-worker.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd, onceCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing worker-service CLI: %s\n", err)
		os.Exit(1)
	}
}
