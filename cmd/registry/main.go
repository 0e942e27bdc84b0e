package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/JustinDo720/stockalert/internal/registry"
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
	store, err := registry.NewStore(cfg.Registry.DatabaseURL)
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

	// 4. Set up Gin router
	router := gin.Default()
	handler := registry.NewHandler(store)
	handler.Register(router)

	// 5. Start server in goroutine
	go func() {
		slog.Info("Registry service listening", "port", cfg.Registry.Port)
		if err := router.Run(cfg.Registry.Port); err != nil {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// 6. Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	sig := <-stop
	slog.Info("Shutdown signal received", "signal", sig)
	slog.Info("Shutting down registry service...")
}
