package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/config"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/database"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/server"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal
	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	// Give the server 10 seconds to finish current requests
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	done <- true
}

func main() {
	// Initialize structured logger
	logLevel := slog.LevelInfo
	if os.Getenv("DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting kx-scheduler-services API")

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("Configuration loaded",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	// Initialize database connection
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Database connected")

	// Initialize server with all dependencies
	serverInstance := server.New(cfg, logger, db)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(serverInstance.GetHTTPServer(), done)

	// Start the server
	if err := serverInstance.Start(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server startup error", "error", err)

		if dbErr := database.CloseConnection(db); dbErr != nil {
			logger.Error("Failed to close database connection", "error", dbErr)
		}
		os.Exit(1)
	}

	// Wait for the graceful shutdown to complete
	<-done

	if err := database.CloseConnection(db); err != nil {
		logger.Error("Failed to close database connection", "error", err)
	}
	logger.Info("Shutdown complete")
}
