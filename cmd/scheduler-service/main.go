package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stock-sentiment-tracker/internal/scheduler/config"
	"stock-sentiment-tracker/internal/scheduler/repository"
	"stock-sentiment-tracker/internal/scheduler/service"
	"stock-sentiment-tracker/pkg/logger"
	"stock-sentiment-tracker/pkg/postgres"
	"stock-sentiment-tracker/pkg/redis"

	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the scheduler service",
	Run: func(cmd *cobra.Command, args []string) {
		runScheduler(false)
	},
}

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Seeds the watchlist with the default tickers and enqueues a backfill",
	Run: func(cmd *cobra.Command, args []string) {
		runScheduler(true)
	},
}

func runScheduler(bootstrap bool) {
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

	appLogger.Info("Starting Scheduler Service", logger.Field("name", cfg.App.Name))

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

	taskRepo := repository.NewTaskRepository(db.DB)
	trackedStockRepo := repository.NewTrackedStockRepository(db.DB)
	currentPriceRepo := repository.NewCurrentPriceRepository(db.DB)
	quoteRepo, err := repository.NewQuoteRepository(cfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize quote repository", logger.ErrorField(err))
	}

	schedulerSvc := service.NewSchedulerService(
		cfg,
		taskRepo,
		trackedStockRepo,
		currentPriceRepo,
		quoteRepo,
		redisClient.Client,
		appLogger,
	)

	if bootstrap {
		if err := schedulerSvc.Bootstrap(ctx); err != nil {
			appLogger.Fatal("Bootstrap failed", logger.ErrorField(err))
		}
		return
	}

	if err := schedulerSvc.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start scheduler", logger.ErrorField(err))
	}

	<-ctx.Done()
	appLogger.Info("Shutting down scheduler...")
	schedulerSvc.Stop()
	appLogger.Info("Scheduler exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "scheduler-service"}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-scheduler.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd, bootstrapCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing scheduler-service CLI: %s\n", err)
		os.Exit(1)
	}
}
