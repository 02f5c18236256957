package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"budgetflow/internal/amqp"
	"budgetflow/internal/calendar"
	"budgetflow/internal/core"
	"budgetflow/internal/log"
	"budgetflow/internal/schedule"
	"budgetflow/internal/store"
)

// ReminderPublisher delivers reminder messages. *amqp.Client implements it.
type ReminderPublisher interface {
	PublishReminder(ctx context.Context, msg *amqp.ReminderMessage) error
}

// ReminderProcessor publishes reminders for planned items that are due.
type ReminderProcessor struct {
	store     store.Store
	publisher ReminderPublisher
	leadDays  int
	rev       *Revision
	logger    *log.Logger
}

// NewReminderProcessor creates a processor that reminds leadDays ahead of
// each occurrence. A negative leadDays is treated as zero.
func NewReminderProcessor(st store.Store, publisher ReminderPublisher, leadDays int, rev *Revision, logger *log.Logger) *ReminderProcessor {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if leadDays < 0 {
		leadDays = 0
	}
	return &ReminderProcessor{
		store:     st,
		publisher: publisher,
		leadDays:  leadDays,
		rev:       rev,
		logger:    logger.WithComponent(log.ComponentReminder),
	}
}

// ProcessDueReminders publishes at most one reminder per due item per day
// and returns how many were sent. Failures on single items are logged and
// skipped so one bad item does not block the rest.
func (p *ReminderProcessor) ProcessDueReminders(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil || p.publisher == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}
	today := calendar.DateOf(now)

	items, err := p.store.ListPlanned(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list planned items: %w", err)
	}

	p.logger.InfoContext(ctx, "Processing planned item reminders",
		"total", len(items),
		"processing_date", today.String())

	sent := 0
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if !item.ReminderEnabled || item.LastRemindedOn.Equal(today) {
			continue
		}

		res, err := schedule.Compute(item, today)
		if err != nil {
			var se *core.InvalidScheduleError
			if errors.As(err, &se) {
				p.logger.WarnContext(ctx, "Skipping planned item with invalid schedule",
					log.FieldPlannedItem, item.ID,
					log.FieldErrorType, log.ErrorTypeSchedule,
					log.FieldError, err)
				continue
			}
			return sent, err
		}
		if !schedule.ReminderDue(item, res, p.leadDays) {
			continue
		}

		msg := amqp.NewReminderMessage(item, res, now)
		if err := p.publisher.PublishReminder(ctx, msg); err != nil {
			p.logger.ErrorContext(ctx, "Failed to publish reminder",
				log.FieldPlannedItem, item.ID,
				log.FieldErrorType, log.ErrorTypeNetwork,
				log.FieldError, err)
			continue
		}

		if err := p.store.MarkReminded(ctx, item.ID, today); err != nil {
			// the reminder went out; worst case it is repeated on the next pass
			p.logger.ErrorContext(ctx, "Failed to record reminder date",
				log.FieldPlannedItem, item.ID,
				log.FieldError, err)
		} else {
			p.rev.Bump()
		}

		sent++
		p.logger.InfoContext(ctx, "Reminder published",
			log.NewFields().
				WithOperation(log.OpRemind).
				WithPlannedItem(item.ID, item.Title, string(res.Status)).
				ToSlice()...)
	}

	p.logger.InfoContext(ctx, "Reminder processing complete",
		"sent", sent,
		"total_checked", len(items))
	return sent, nil
}
