// Package worker holds the consumers that run behind the message broker.
package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"budgetflow/internal/amqp"
	"budgetflow/internal/cache"
	"budgetflow/internal/log"
)

// Notifier turns reminder messages into user-facing notification lines.
// Push delivery is out of scope; lines go to Out and the log.
type Notifier struct {
	out    io.Writer
	seen   *cache.LRUCache[struct{}]
	logger *log.Logger

	delivered  atomic.Int64
	duplicates atomic.Int64
}

// NewNotifier creates a notifier that suppresses repeats of the same
// reminder for 24 hours, remembering at most dedupeSize reminders.
func NewNotifier(out io.Writer, dedupeSize int, logger *log.Logger) *Notifier {
	if out == nil {
		out = io.Discard
	}
	if dedupeSize <= 0 {
		dedupeSize = 1024
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Notifier{
		out:    out,
		seen:   cache.NewLRUCache[struct{}](dedupeSize, 24*time.Hour),
		logger: logger.WithComponent(log.ComponentNotifier),
	}
}

// HandleReminder processes a single reminder message from AMQP. Broker
// redeliveries of a reminder already shown are acknowledged silently.
func (n *Notifier) HandleReminder(ctx context.Context, msg *amqp.ReminderMessage) error {
	if msg == nil || msg.PlannedItemID == "" {
		return errors.New("reminder without planned item id")
	}

	key := dedupeKey(msg)
	if _, ok := n.seen.Get(key); ok {
		n.duplicates.Add(1)
		n.logger.DebugContext(ctx, "Duplicate reminder skipped", log.FieldPlannedItem, msg.PlannedItemID)
		return nil
	}

	text := msg.Text()
	if _, err := fmt.Fprintln(n.out, text); err != nil {
		return fmt.Errorf("write notification: %w", err)
	}
	n.seen.Set(key, struct{}{})
	n.delivered.Add(1)

	n.logger.InfoContext(ctx, "Reminder delivered",
		log.NewFields().
			WithPlannedItem(msg.PlannedItemID, msg.Title, string(msg.Status)).
			ToSlice()...)
	return nil
}

// Stats returns how many reminders were delivered and how many duplicates
// were dropped.
func (n *Notifier) Stats() (delivered, duplicates int64) {
	return n.delivered.Load(), n.duplicates.Load()
}

// Cache exposes the dedupe cache for registration with a cleanup manager.
func (n *Notifier) Cache() *cache.LRUCache[struct{}] {
	return n.seen
}

// a reminder is the same when it is about the same occurrence on the same day
func dedupeKey(msg *amqp.ReminderMessage) string {
	return fmt.Sprintf("%s|%s|%s", msg.PlannedItemID, msg.DueOn, msg.Timestamp.UTC().Format("2006-01-02"))
}
