package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"budgetflow/internal/calendar"
	"budgetflow/internal/log"
)

// ReminderLoopConfig holds configuration for the reminder loop
type ReminderLoopConfig struct {
	// Interval is how often planned items are checked (default: 1h)
	Interval time.Duration
}

// ReminderLoop runs a ReminderProcessor on a ticker until stopped.
type ReminderLoop struct {
	processor *ReminderProcessor
	clock     calendar.Clock
	config    ReminderLoopConfig
	logger    *log.Logger

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewReminderLoop(processor *ReminderProcessor, clock calendar.Clock, config ReminderLoopConfig, logger *log.Logger) *ReminderLoop {
	if config.Interval <= 0 {
		config.Interval = time.Hour
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ReminderLoop{
		processor: processor,
		clock:     clock,
		config:    config,
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// Start begins the processing loop. Returns an error if already running.
func (l *ReminderLoop) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return fmt.Errorf("reminder loop is already running")
	}
	l.running = true
	l.stopCh = make(chan struct{})
	l.doneCh = make(chan struct{})
	stopCh, doneCh := l.stopCh, l.doneCh
	l.mu.Unlock()

	go l.runLoop(ctx, stopCh, doneCh)

	l.logger.InfoContext(ctx, "Reminder loop started", "interval", l.config.Interval)
	return nil
}

// Stop gracefully stops the loop and waits for the current pass to finish.
func (l *ReminderLoop) Stop(ctx context.Context) error {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return nil
	}
	stopCh, doneCh := l.stopCh, l.doneCh
	l.running = false
	l.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		l.logger.InfoContext(ctx, "Reminder loop stopped gracefully")
		return nil
	case <-ctx.Done():
		l.logger.WarnContext(ctx, "Reminder loop stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the loop is currently running
func (l *ReminderLoop) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

func (l *ReminderLoop) runLoop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(l.config.Interval)
	defer ticker.Stop()

	// Process immediately on startup
	l.runOnce(ctx)

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.runOnce(ctx)
		}
	}
}

func (l *ReminderLoop) runOnce(ctx context.Context) {
	if _, err := l.processor.ProcessDueReminders(ctx, l.clock.Now()); err != nil && ctx.Err() == nil {
		l.logger.ErrorContext(ctx, "Reminder pass failed", log.FieldError, err)
	}
}
