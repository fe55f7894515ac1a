// Package main is the entry point for the unibox HTTP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teamline/unibox/internal/config"
	"github.com/teamline/unibox/internal/handler"
	"github.com/teamline/unibox/internal/middleware"
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

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
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

	svc := service.NewService(cfg, repo, twilioSender, publisher, redisClient, logger)

	h := handler.NewHandler(svc, logger)
	router := setupRouter(h)

	var corsConfig *middleware.CORSConfig
	if cfg.Middleware.EnableCORS {
		corsConfig = middleware.NewCORSConfig(&cfg.Middleware)
	}

	middlewareConfig := &middleware.Config{
		Logger:         logger,
		CORS:           corsConfig,
		RateLimit:      rate.Limit(cfg.Middleware.RateLimit),
		RateLimitBurst: cfg.Middleware.RateLimitBurst,
		RequestTimeout: 30 * time.Second,
	}

	finalHandler := middleware.Chain(middlewareConfig)(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      finalHandler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// The dispatcher is embedded only when this is the single instance
	// responsible for scheduled sends.
	if cfg.Dispatcher.Embedded {
		if err := svc.Dispatcher.Start(); err != nil {
			logger.Error("Failed to start dispatcher on startup", zap.Error(err))
		} else {
			logger.Info("Dispatcher started with the server")
		}
	}

	go func() {
		logger.Info("Starting server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if svc.Dispatcher.IsRunning() {
		if err := svc.Dispatcher.Stop(); err != nil {
			logger.Error("Failed to stop dispatcher", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
