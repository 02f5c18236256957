package main

import (
	"context"
	"os"
	"time"

	"budgetflow/internal/amqp"
	"budgetflow/internal/cli"
	"budgetflow/internal/log"
	"budgetflow/internal/services"
	"budgetflow/internal/worker"
)

// localPublisher shows reminders in-process when no broker is configured.
type localPublisher struct {
	n *worker.Notifier
}

func (p localPublisher) PublishReminder(ctx context.Context, msg *amqp.ReminderMessage) error {
	return p.n.HandleReminder(ctx, msg)
}

func main() {
	cfg, logger := cli.Bootstrap(log.ComponentReminder)
	logger.Info("Starting reminder-worker")

	app, err := cli.NewApp(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", log.FieldError, err)
		os.Exit(1)
	}

	var publisher services.ReminderPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			_ = app.Close()
			os.Exit(1)
		}
		publisher = amqpClient
		logger.Info("AMQP client initialized - reminders go to the notifier",
			"exchange", cfg.AMQPExchange,
			"queue", cfg.AMQPQueue)
	} else {
		publisher = localPublisher{n: worker.NewNotifier(os.Stdout, 0, logger)}
		logger.Info("AMQP disabled - reminders are printed locally")
	}

	processor := services.NewReminderProcessor(app.Store, publisher, cfg.ReminderLeadDays, app.Revision, logger)
	loop := services.NewReminderLoop(processor, app.Clock, services.ReminderLoopConfig{Interval: cfg.ReminderInterval}, logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		if err := loop.Stop(stopCtx); err != nil {
			logger.Warn("Reminder loop did not stop cleanly", log.FieldError, err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("Failed to close AMQP client", log.FieldError, err)
			}
		}
		if err := app.Close(); err != nil {
			logger.Warn("Failed to close backend", log.FieldError, err)
		}
	})

	logger.Info("Reminder processor configured",
		"interval", cfg.ReminderInterval,
		"lead_days", cfg.ReminderLeadDays,
		"backend", cfg.DataBackend)

	if err := loop.Start(ctx); err != nil {
		logger.Error("Failed to start reminder loop", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
}
