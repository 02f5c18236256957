package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"budgetflow/internal/calendar"
	"budgetflow/internal/core"
	"budgetflow/internal/log"
	"budgetflow/internal/schedule"
	"budgetflow/internal/store"
)

// PlannedService manages recurring obligations and their completion.
type PlannedService struct {
	store  store.Store
	rev    *Revision
	logger *log.Logger
}

func NewPlannedService(st store.Store, rev *Revision, logger *log.Logger) *PlannedService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &PlannedService{store: st, rev: rev, logger: logger.WithComponent(log.ComponentPlanned)}
}

// List returns every planned item with its schedule as seen at now.
func (s *PlannedService) List(ctx context.Context, now time.Time) ([]PlannedStatus, error) {
	return plannedStatuses(ctx, s.store, calendar.DateOf(now), s.logger)
}

// Save validates and persists item.
func (s *PlannedService) Save(ctx context.Context, item core.PlannedItem) (core.PlannedItem, error) {
	item.Title = strings.TrimSpace(item.Title)
	item.Category = strings.TrimSpace(item.Category)
	if err := item.Validate(); err != nil {
		return core.PlannedItem{}, fmt.Errorf("validation failed: %w", err)
	}
	saved, err := s.store.SavePlanned(ctx, item)
	if err != nil {
		return core.PlannedItem{}, fmt.Errorf("save planned item: %w", err)
	}
	s.rev.Bump()
	s.logger.InfoContext(ctx, "Planned item saved",
		log.FieldPlannedItem, saved.ID,
		log.FieldTitle, saved.Title,
		log.FieldOperation, log.OpUpdate)
	return saved, nil
}

// Delete removes a planned item. Transactions recorded for it are kept.
func (s *PlannedService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeletePlanned(ctx, id); err != nil {
		return fmt.Errorf("delete planned item %s: %w", id, err)
	}
	s.rev.Bump()
	s.logger.InfoContext(ctx, "Planned item deleted",
		log.FieldPlannedItem, id,
		log.FieldOperation, log.OpDelete)
	return nil
}

// MarkPaid completes the item today and records the matching income or
// expense transaction. It returns the updated status and the transaction.
// An item already completed in its current cycle yields
// *core.AlreadyCompletedError and records nothing.
func (s *PlannedService) MarkPaid(ctx context.Context, id string, now time.Time) (PlannedStatus, core.Transaction, error) {
	today := calendar.DateOf(now)

	item, err := s.store.GetPlanned(ctx, id)
	if err != nil {
		return PlannedStatus{}, core.Transaction{}, fmt.Errorf("get planned item %s: %w", id, err)
	}
	current, err := schedule.Compute(item, today)
	if err != nil {
		return PlannedStatus{}, core.Transaction{}, err
	}
	if current.Status == core.StatusCompleted {
		return PlannedStatus{}, core.Transaction{}, &core.AlreadyCompletedError{
			ItemID:         item.ID,
			CompletedOn:    item.LastCompletedOn,
			NextOccurrence: current.NextOccurrence,
		}
	}
	paid, err := schedule.MarkPaid(item, today)
	if err != nil {
		return PlannedStatus{}, core.Transaction{}, err
	}
	res, err := schedule.Compute(paid, today)
	if err != nil {
		return PlannedStatus{}, core.Transaction{}, err
	}

	tx, err := s.store.AddTransaction(ctx, core.Transaction{
		Kind:       item.Kind,
		Amount:     item.Amount,
		Category:   item.Category,
		OccurredOn: today,
		Notes:      item.Title,
	})
	if err != nil {
		return PlannedStatus{}, core.Transaction{}, fmt.Errorf("record payment: %w", err)
	}
	if paid, err = s.store.SavePlanned(ctx, paid); err != nil {
		// the payment exists without the completion; undo it so a retry is clean
		if derr := s.store.DeleteTransaction(ctx, tx.ID); derr != nil {
			s.logger.ErrorContext(ctx, "Failed to roll back payment",
				log.FieldTransaction, tx.ID, log.FieldError, derr)
		}
		return PlannedStatus{}, core.Transaction{}, fmt.Errorf("save planned item %s: %w", id, err)
	}
	s.rev.Bump()

	s.logger.InfoContext(ctx, "Planned item marked paid",
		log.NewFields().
			WithOperation(log.OpMarkPaid).
			WithPlannedItem(paid.ID, paid.Title, string(res.Status)).
			WithTransaction(tx.ID, string(tx.Kind), tx.Amount.Minor, tx.Category).
			ToSlice()...)
	return PlannedStatus{Item: paid, Schedule: res}, tx, nil
}
