package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JustinDo720/stockalert/internal/userapi"
	"github.com/JustinDo720/stockalert/pkg/config"
	"github.com/JustinDo720/stockalert/pkg/logger"
)

func main() {
	logger.Init()

	// 1. Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Connect to Database
	slog.Info("Connecting to database...")
	store, err := userapi.NewStore(cfg.UserAPI.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// 3. Auto-migrate schema
	if err := store.AutoMigrate(); err != nil {
		slog.Error("Failed to auto-migrate schema", "error", err)
		os.Exit(1)
	}
	slog.Info("Schema migrated successfully")

	// 4. Connect to Redis (optional ticker cache)
	var cache *userapi.TickerCache
	if cfg.Redis.Addr != "" {
		slog.Info("Connecting to Redis...")
		cache, err = userapi.NewTickerCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer cache.Close()
		slog.Info("Connected to Redis")
	} else {
		slog.Info("Ticker cache disabled")
	}

	// 5. Registry client
	registryClient := userapi.NewRegistryClient(
		cfg.UserAPI.RegistryURL,
		time.Duration(cfg.UserAPI.RegistryTimeout)*time.Second,
	)

	// 6. Set up Gin router
	router := gin.Default()
	handler := userapi.NewHandler(store, cache, registryClient)
	handler.Register(router)

	// 7. Start server in goroutine
	go func() {
		slog.Info("User API listening", "port", cfg.UserAPI.Port)
		if err := router.Run(cfg.UserAPI.Port); err != nil {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// 8. Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	sig := <-stop
	slog.Info("Shutdown signal received", "signal", sig)
	slog.Info("Shutting down user API...")
}
