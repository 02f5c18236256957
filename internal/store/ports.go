// Package store declares the persistence ports the services depend on.
package store

import (
	"context"
	"errors"

	"budgetflow/internal/calendar"
	"budgetflow/internal/core"
)

// ErrNotFound is returned when a record with the requested ID does not exist.
var ErrNotFound = errors.New("not found")

// Ports for outbound adapters.
type (
	TransactionReader interface {
		// ListTransactions returns live transactions with OccurredOn in
		// [from, to), ordered by date then ID.
		ListTransactions(ctx context.Context, from, to calendar.Date) ([]core.Transaction, error)
	}

	TransactionWriter interface {
		// AddTransaction stores t, assigning an ID when it has none.
		AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		// DeleteTransaction removes t from future reads.
		DeleteTransaction(ctx context.Context, id string) error
	}

	PlannedReader interface {
		ListPlanned(ctx context.Context) ([]core.PlannedItem, error)
		GetPlanned(ctx context.Context, id string) (core.PlannedItem, error)
	}

	PlannedWriter interface {
		// SavePlanned inserts or replaces p, assigning an ID when it has none.
		SavePlanned(ctx context.Context, p core.PlannedItem) (core.PlannedItem, error)
		DeletePlanned(ctx context.Context, id string) error
		// MarkReminded sets only the item's last reminder date, leaving every
		// other field as currently stored.
		MarkReminded(ctx context.Context, id string, on calendar.Date) error
	}

	BudgetStore interface {
		// GetBudget returns nil when no budget has been configured.
		GetBudget(ctx context.Context) (*core.BudgetConfig, error)
		SaveBudget(ctx context.Context, b core.BudgetConfig) error
	}

	TaxonomyReader interface {
		// ListCategories returns expense and income categories.
		ListCategories(ctx context.Context) (expense []string, income []string, err error)
	}

	// Store is the full persistence collaborator.
	Store interface {
		TransactionReader
		TransactionWriter
		PlannedReader
		PlannedWriter
		BudgetStore
		TaxonomyReader
	}
)
