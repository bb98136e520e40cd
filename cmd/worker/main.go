package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/config"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/database"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/events"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/repositories"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/services"
)

func main() {
	logLevel := slog.LevelInfo
	if os.Getenv("DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting kx-scheduler-services event worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Database connected")

	conn, err := nats.Connect(cfg.NatsURL, nats.Name(cfg.EventSource))
	if err != nil {
		logger.Error("Failed to connect to event bus", "error", err, "url", cfg.NatsURL)
		os.Exit(1)
	}
	defer conn.Drain()
	logger.Info("Event bus connected", "url", cfg.NatsURL)

	summaryRepo := repositories.NewSummaryRepository(db)
	scheduleRepo := repositories.NewScheduleRepository(db)
	exceptionRepo := repositories.NewExceptionRepository(db)
	bookingRepo := repositories.NewBookingRepository(db, summaryRepo)

	sessionService := services.NewSessionService(scheduleRepo, exceptionRepo, summaryRepo)
	bookingService := services.NewBookingService(bookingRepo, scheduleRepo, exceptionRepo)

	publisher := events.NewNATSPublisher(conn, cfg.EventSource)
	worker := events.NewWorker(bookingService, sessionService, publisher, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := worker.Subscribe(ctx, conn); err != nil {
		logger.Error("Failed to subscribe", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Shutting down event worker")

	if err := database.CloseConnection(db); err != nil {
		logger.Error("Failed to close database connection", "error", err)
	}
}
