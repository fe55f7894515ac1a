// Package main runs the scheduled-message dispatcher as a standalone
// process. Run exactly one dispatcher instance per database; the design has
// no cross-process claim step, so two instances can double-send.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/teamline/unibox/internal/config"
	"github.com/teamline/unibox/internal/realtime"
	"github.com/teamline/unibox/internal/repository"
	"github.com/teamline/unibox/internal/sender"
	"github.com/teamline/unibox/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	repo := repository.NewRepository(db)
	twilioSender := sender.NewTwilioSender(&cfg.Twilio, logger)
	publisher := realtime.NewRedisPublisher(redisClient, logger)

	dispatch := service.NewDispatchService(cfg, repo, twilioSender, publisher, redisClient, logger)
	dispatcher := service.NewDispatcherControl(cfg, dispatch, logger)

	if err := dispatcher.Start(); err != nil {
		logger.Fatal("Failed to start dispatcher", zap.Error(err))
	}

	logger.Info("Dispatcher running",
		zap.Int("interval_seconds", cfg.Dispatcher.IntervalSeconds),
		zap.Int("batch_size", cfg.Dispatcher.BatchSize))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down dispatcher...")

	if err := dispatcher.Stop(); err != nil {
		logger.Error("Failed to stop dispatcher", zap.Error(err))
	}

	logger.Info("Dispatcher exited")
}
