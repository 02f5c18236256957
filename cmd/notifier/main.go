package main

import (
	"context"
	"errors"
	"os"
	"time"

	"budgetflow/internal/amqp"
	"budgetflow/internal/cache"
	"budgetflow/internal/cli"
	"budgetflow/internal/log"
	"budgetflow/internal/worker"
)

func main() {
	cfg, logger := cli.Bootstrap(log.ComponentNotifier)
	logger.Info("Starting notifier")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the notifier",
			log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}

	notifier := worker.NewNotifier(os.Stdout, 0, logger)
	caches := cache.NewManager(logger.WithComponent(log.ComponentCache).Slog())
	caches.Register(notifier.Cache())

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		caches.Stop()
		if err := amqpClient.Close(); err != nil {
			logger.Warn("Failed to close AMQP client", log.FieldError, err)
		}
		delivered, duplicates := notifier.Stats()
		logger.Info("Notifier stats", "delivered", delivered, "duplicates", duplicates)
	})
	caches.StartCleanup(ctx, time.Hour)

	go func() {
		err := amqpClient.ConsumeReminders(ctx, notifier.HandleReminder)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Reminder consumption failed", log.FieldError, err)
		}
	}()

	logger.Info("Consuming reminders", "queue", cfg.AMQPQueue)
	cli.WaitForShutdown(ctx, done)
}
