package services

import (
	"context"
	"fmt"
	"strings"

	"budgetflow/internal/core"
	"budgetflow/internal/log"
	"budgetflow/internal/store"
)

// TransactionService validates and persists ledger entries.
type TransactionService struct {
	store  store.TransactionWriter
	rev    *Revision
	logger *log.Logger
}

func NewTransactionService(st store.TransactionWriter, rev *Revision, logger *log.Logger) *TransactionService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &TransactionService{store: st, rev: rev, logger: logger.WithComponent(log.ComponentLedger)}
}

// Add validates t and stores it, returning the stored copy with its ID.
func (s *TransactionService) Add(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.Category = strings.TrimSpace(t.Category)
	t.Notes = strings.TrimSpace(t.Notes)
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validation failed: %w", err)
	}

	saved, err := s.store.AddTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	s.rev.Bump()

	s.logger.InfoContext(ctx, "Transaction recorded",
		log.NewFields().
			WithOperation(log.OpCreate).
			WithTransaction(saved.ID, string(saved.Kind), saved.Amount.Minor, saved.Category).
			ToSlice()...)
	return saved, nil
}

// Delete soft deletes a transaction. Aggregates computed afterwards no
// longer see it; nothing already computed is rewritten.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("transaction id is required")
	}
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("soft delete transaction: %w", err)
	}
	s.rev.Bump()

	s.logger.InfoContext(ctx, "Transaction deleted",
		log.FieldTransaction, id,
		log.FieldOperation, log.OpDelete)
	return nil
}
