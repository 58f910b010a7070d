// Command api is the ICPAIR backend server: the public air-quality API plus
// the background alerting pipeline (scheduler, reading listener,
// maintenance tickers).
//
// Usage:
//
//	icpair-api
//	API_PORT=8080 icpair-api

// @title ICPAIR API
// @version 1.0.0
// @description Municipal air-quality monitoring backend: live readings, PM forecasts, citizen complaints, a sensor storefront, and push alert subscriptions.
// @host localhost:5005
// @BasePath /
// @schemes http https
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/SULDev2024/ICPAIR/internal/alert"
	"github.com/SULDev2024/ICPAIR/internal/api"
	"github.com/SULDev2024/ICPAIR/internal/api/handler"
	"github.com/SULDev2024/ICPAIR/internal/cache"
	"github.com/SULDev2024/ICPAIR/internal/catalog"
	"github.com/SULDev2024/ICPAIR/internal/complaint"
	"github.com/SULDev2024/ICPAIR/internal/config"
	"github.com/SULDev2024/ICPAIR/internal/db"
	"github.com/SULDev2024/ICPAIR/internal/district"
	"github.com/SULDev2024/ICPAIR/internal/listener"
	"github.com/SULDev2024/ICPAIR/internal/maintenance"
	"github.com/SULDev2024/ICPAIR/internal/push"
	"github.com/SULDev2024/ICPAIR/internal/reading"
	"github.com/SULDev2024/ICPAIR/internal/subscription"

	_ "github.com/SULDev2024/ICPAIR/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Stores
	registry := subscription.NewRegistry(pool.Pool, logger)
	readings := reading.NewStore(pool.Pool)
	districts := district.NewStore(pool.Pool)
	complaints := complaint.NewStore(pool.Pool, districts)
	shop := catalog.NewStore(pool.Pool)

	// Ensure the configured districts exist so the frontend and complaint
	// form can reference them
	if err := districts.Seed(ctx, cfg.Districts); err != nil {
		logger.Error("Failed to seed districts", "error", err)
		os.Exit(1)
	}

	// Cache
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Push gateway
	var gateway push.Gateway
	if cfg.FCMCredentialsFile != "" {
		gateway, err = push.NewFCMGateway(ctx, cfg.FCMCredentialsFile, cfg.FrontendURL, logger)
		if err != nil {
			logger.Error("Failed to initialize FCM", "error", err)
			os.Exit(1)
		}
		logger.Info("FCM push gateway initialized")
	} else {
		gateway = push.NewLogGateway(logger)
		logger.Info("Push delivery disabled (no FIREBASE_CREDENTIALS_FILE), logging sends")
	}

	// Cooldown ledger
	var ledger alert.Ledger
	switch cfg.CooldownBackend {
	case "memory":
		ledger = alert.NewMemoryLedger(cfg.CooldownWindow)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		ledger = alert.NewRedisLedger(client, cfg.CooldownWindow)
	default:
		ledger = alert.NewPostgresLedger(pool.Pool, cfg.CooldownWindow)
	}
	logger.Info("Cooldown ledger initialized",
		"backend", cfg.CooldownBackend, "window", cfg.CooldownWindow)

	// Alerting pipeline: scheduler cadence plus listener-triggered runs
	evaluator := alert.NewEvaluator(readings, registry, ledger, gateway,
		cfg.Districts, cfg.SendTimeout, logger)
	scheduler := alert.NewScheduler(evaluator, cfg.CheckInterval, cfg.StartupDelay, logger)
	go scheduler.Run(ctx)
	go listener.Start(ctx, cfg.DatabaseURL, evaluator, logger)

	// Maintenance tickers (subscription purge, reading retention)
	mcfg := maintenance.DefaultConfig()
	mcfg.StaleSubscriptionAge = cfg.StaleSubscriptionAge
	mcfg.ReadingRetention = cfg.ReadingRetention
	go maintenance.Start(ctx, registry, readings, mcfg, logger)

	// Router
	h := handler.New(handler.Deps{
		Pool:       pool,
		Cache:      appCache,
		Config:     cfg,
		Registry:   registry,
		Gateway:    gateway,
		Readings:   readings,
		Complaints: complaints,
		Districts:  districts,
		Catalog:    shop,
		Logger:     logger,
	})
	router := api.NewRouter(h, cfg)

	// HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting ICPAIR API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
