package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"interview-scheduler-backend/config"
	"interview-scheduler-backend/internal/api"
	"interview-scheduler-backend/internal/db"
	"interview-scheduler-backend/internal/logging"
	"interview-scheduler-backend/internal/metrics"
	"interview-scheduler-backend/internal/parse"
	"interview-scheduler-backend/internal/service"
	"interview-scheduler-backend/internal/store"
)

func main() {
	// A missing .env is fine outside local development.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	logger.Info("configuration loaded", zap.String("path", configPath))

	gormDB, err := db.Init(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	appMetrics := metrics.New()
	svc := service.New(store.NewGormStore(gormDB), service.Options{
		Logger:  logger.Named("service"),
		Metrics: appMetrics,
		Import: parse.Options{
			TimeLayout: cfg.Import.TimeLayout,
			Location:   cfg.Import.Location,
		},
	})

	router := api.NewRouter(api.Deps{
		Service:  svc,
		Server:   cfg.Server,
		Location: cfg.Schedule.Location,
		Logger:   logger.Named("http"),
		Metrics:  appMetrics,
	})
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info("shutdown signal received, stopping server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("HTTP server Shutdown", zap.Error(err))
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("server gracefully stopped")
}
