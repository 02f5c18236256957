package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"budgetflow/internal/calendar"
	"budgetflow/internal/core"
	"budgetflow/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var _ store.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// AddTransaction implements store.TransactionWriter
func (r *SQLiteRepository) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := r.queries.CreateTransaction(ctx, transactionRow(t)); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		"kind", t.Kind,
		"amount_minor", t.Amount.Minor,
		"category", t.Category,
		"occurred_on", t.OccurredOn.String())

	return t, nil
}

// ListTransactions implements store.TransactionReader
func (r *SQLiteRepository) ListTransactions(ctx context.Context, from, to calendar.Date) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactionsBetween(ctx, ListTransactionsBetweenParams{
		From: from.String(),
		To:   to.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := row.toCore()
		if err != nil {
			return nil, fmt.Errorf("decode transaction %s: %w", row.ID, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// DeleteTransaction soft-deletes so history can be audited but no longer
// aggregates.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	n, err := r.queries.SoftDeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// ListPlanned implements store.PlannedReader
func (r *SQLiteRepository) ListPlanned(ctx context.Context) ([]core.PlannedItem, error) {
	rows, err := r.queries.ListPlannedItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list planned items: %w", err)
	}
	out := make([]core.PlannedItem, 0, len(rows))
	for _, row := range rows {
		p, err := row.toCore()
		if err != nil {
			return nil, fmt.Errorf("decode planned item %s: %w", row.ID, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *SQLiteRepository) GetPlanned(ctx context.Context, id string) (core.PlannedItem, error) {
	row, err := r.queries.GetPlannedItem(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.PlannedItem{}, fmt.Errorf("planned item %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return core.PlannedItem{}, fmt.Errorf("get planned item: %w", err)
	}
	return row.toCore()
}

// SavePlanned implements store.PlannedWriter
func (r *SQLiteRepository) SavePlanned(ctx context.Context, p core.PlannedItem) (core.PlannedItem, error) {
	if err := p.Validate(); err != nil {
		return core.PlannedItem{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := r.queries.UpsertPlannedItem(ctx, plannedRow(p)); err != nil {
		return core.PlannedItem{}, fmt.Errorf("save planned item: %w", err)
	}
	slog.DebugContext(ctx, "Planned item saved", "id", p.ID, "title", p.Title)
	return p, nil
}

// MarkReminded updates last_reminded_on alone so a concurrent save of the
// same item is not overwritten.
func (r *SQLiteRepository) MarkReminded(ctx context.Context, id string, on calendar.Date) error {
	n, err := r.queries.SetPlannedReminded(ctx, id, nullDate(on))
	if err != nil {
		return fmt.Errorf("mark planned item reminded: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("planned item %s: %w", id, store.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeletePlanned(ctx context.Context, id string) error {
	n, err := r.queries.DeletePlannedItem(ctx, id)
	if err != nil {
		return fmt.Errorf("delete planned item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("planned item %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// GetBudget returns nil when neither the budget row nor any category limit
// exists.
func (r *SQLiteRepository) GetBudget(ctx context.Context) (*core.BudgetConfig, error) {
	limits, err := r.queries.ListCategoryLimits(ctx)
	if err != nil {
		return nil, fmt.Errorf("list category limits: %w", err)
	}
	row, err := r.queries.GetBudget(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	if errors.Is(err, sql.ErrNoRows) && len(limits) == 0 {
		return nil, nil
	}

	b := &core.BudgetConfig{
		MonthlyLimit:  core.NewMoney(row.MonthlyLimitMinor),
		SavingsTarget: core.NewMoney(row.SavingsTargetMinor),
	}
	if len(limits) > 0 {
		b.PerCategoryLimits = make(map[string]core.Money, len(limits))
		for _, l := range limits {
			b.PerCategoryLimits[l.Category] = core.NewMoney(l.LimitMinor)
		}
	}
	return b, nil
}

// SaveBudget replaces the budget and every category limit atomically.
func (r *SQLiteRepository) SaveBudget(ctx context.Context, b core.BudgetConfig) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin budget tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := r.queries.WithTx(tx)
	if err := q.UpsertBudget(ctx, Budget{
		MonthlyLimitMinor:  b.MonthlyLimit.Minor,
		SavingsTargetMinor: b.SavingsTarget.Minor,
	}); err != nil {
		return fmt.Errorf("save budget: %w", err)
	}
	if err := q.ClearCategoryLimits(ctx); err != nil {
		return fmt.Errorf("clear category limits: %w", err)
	}
	for category, limit := range b.PerCategoryLimits {
		if !limit.IsPositive() {
			continue
		}
		if err := q.InsertCategoryLimit(ctx, CategoryLimit{Category: category, LimitMinor: limit.Minor}); err != nil {
			return fmt.Errorf("save limit for %s: %w", category, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved",
		"monthly_limit", b.MonthlyLimit.Minor,
		"savings_target", b.SavingsTarget.Minor,
		"category_limits", len(b.PerCategoryLimits))
	return nil
}

// ListCategories implements store.TaxonomyReader
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]string, []string, error) {
	expense, err := r.queries.ListCategoriesByKind(ctx, string(core.KindExpense))
	if err != nil {
		return nil, nil, fmt.Errorf("get expense categories: %w", err)
	}
	income, err := r.queries.ListCategoriesByKind(ctx, string(core.KindIncome))
	if err != nil {
		return nil, nil, fmt.Errorf("get income categories: %w", err)
	}
	return expense, income, nil
}

func transactionRow(t core.Transaction) Transaction {
	row := Transaction{
		ID:          t.ID,
		Kind:        string(t.Kind),
		AmountMinor: t.Amount.Minor,
		Category:    t.Category,
		OccurredOn:  t.OccurredOn.String(),
		Notes:       t.Notes,
	}
	if t.Debt != nil {
		row.DebtParty = nullString(t.Debt.Party)
		row.DebtDirection = nullString(string(t.Debt.Direction))
		row.DebtDueDate = nullDate(t.Debt.DueDate)
		row.DebtStatus = nullString(string(t.Debt.Status))
	}
	return row
}

func (row Transaction) toCore() (core.Transaction, error) {
	on, err := calendar.ParseDate(row.OccurredOn)
	if err != nil {
		return core.Transaction{}, err
	}
	t := core.Transaction{
		ID:         row.ID,
		Kind:       core.TransactionKind(row.Kind),
		Amount:     core.NewMoney(row.AmountMinor),
		Category:   row.Category,
		OccurredOn: on,
		Notes:      row.Notes,
	}
	if row.DebtParty.Valid {
		due, err := parseNullDate(row.DebtDueDate)
		if err != nil {
			return core.Transaction{}, err
		}
		t.Debt = &core.DebtDetails{
			Party:     row.DebtParty.String,
			Direction: core.DebtDirection(row.DebtDirection.String),
			DueDate:   due,
			Status:    core.DebtStatus(row.DebtStatus.String),
		}
	}
	return t, nil
}

func plannedRow(p core.PlannedItem) PlannedItem {
	return PlannedItem{
		ID:              p.ID,
		Title:           p.Title,
		AmountMinor:     p.Amount.Minor,
		Category:        p.Category,
		Kind:            string(p.Kind),
		Frequency:       string(p.Frequency),
		Anchor:          int64(p.Anchor),
		ReminderEnabled: p.ReminderEnabled,
		LastCompletedOn: nullDate(p.LastCompletedOn),
		StartsOn:        nullDate(p.StartsOn),
		LastRemindedOn:  nullDate(p.LastRemindedOn),
	}
}

func (row PlannedItem) toCore() (core.PlannedItem, error) {
	p := core.PlannedItem{
		ID:              row.ID,
		Title:           row.Title,
		Amount:          core.NewMoney(row.AmountMinor),
		Category:        row.Category,
		Kind:            core.TransactionKind(row.Kind),
		Frequency:       core.Frequency(row.Frequency),
		Anchor:          int(row.Anchor),
		ReminderEnabled: row.ReminderEnabled,
	}
	var err error
	if p.LastCompletedOn, err = parseNullDate(row.LastCompletedOn); err != nil {
		return core.PlannedItem{}, err
	}
	if p.StartsOn, err = parseNullDate(row.StartsOn); err != nil {
		return core.PlannedItem{}, err
	}
	if p.LastRemindedOn, err = parseNullDate(row.LastRemindedOn); err != nil {
		return core.PlannedItem{}, err
	}
	return p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullDate(d calendar.Date) sql.NullString {
	if d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseNullDate(s sql.NullString) (calendar.Date, error) {
	if !s.Valid || s.String == "" {
		return calendar.Date{}, nil
	}
	return calendar.ParseDate(s.String)
}
