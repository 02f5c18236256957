package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Transaction is a row of the transactions table.
type Transaction struct {
	ID            string
	Kind          string
	AmountMinor   int64
	Category      string
	OccurredOn    string
	Notes         string
	DebtParty     sql.NullString
	DebtDirection sql.NullString
	DebtDueDate   sql.NullString
	DebtStatus    sql.NullString
}

// PlannedItem is a row of the planned_items table.
type PlannedItem struct {
	ID              string
	Title           string
	AmountMinor     int64
	Category        string
	Kind            string
	Frequency       string
	Anchor          int64
	ReminderEnabled bool
	LastCompletedOn sql.NullString
	StartsOn        sql.NullString
	LastRemindedOn  sql.NullString
}

// Budget is the singleton row of the budget table.
type Budget struct {
	MonthlyLimitMinor  int64
	SavingsTargetMinor int64
}

type CategoryLimit struct {
	Category   string
	LimitMinor int64
}

const createTransaction = `
INSERT INTO transactions (
    id, kind, amount_minor, category, occurred_on, notes,
    debt_party, debt_direction, debt_due_date, debt_status
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateTransaction(ctx context.Context, arg Transaction) error {
	_, err := q.db.ExecContext(ctx, createTransaction,
		arg.ID, arg.Kind, arg.AmountMinor, arg.Category, arg.OccurredOn, arg.Notes,
		arg.DebtParty, arg.DebtDirection, arg.DebtDueDate, arg.DebtStatus,
	)
	return err
}

const listTransactionsBetween = `
SELECT id, kind, amount_minor, category, occurred_on, notes,
       debt_party, debt_direction, debt_due_date, debt_status
FROM transactions
WHERE deleted_at IS NULL AND occurred_on >= ? AND occurred_on < ?
ORDER BY occurred_on, id
`

type ListTransactionsBetweenParams struct {
	From string
	To   string
}

func (q *Queries) ListTransactionsBetween(ctx context.Context, arg ListTransactionsBetweenParams) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactionsBetween, arg.From, arg.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID, &i.Kind, &i.AmountMinor, &i.Category, &i.OccurredOn, &i.Notes,
			&i.DebtParty, &i.DebtDirection, &i.DebtDueDate, &i.DebtStatus,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const softDeleteTransaction = `
UPDATE transactions SET deleted_at = CURRENT_TIMESTAMP
WHERE id = ? AND deleted_at IS NULL
`

// SoftDeleteTransaction returns the number of rows marked deleted.
func (q *Queries) SoftDeleteTransaction(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, softDeleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const plannedColumns = `id, title, amount_minor, category, kind, frequency, anchor,
       reminder_enabled, last_completed_on, starts_on, last_reminded_on`

const listPlannedItems = `SELECT ` + plannedColumns + ` FROM planned_items ORDER BY title, id`

func (q *Queries) ListPlannedItems(ctx context.Context) ([]PlannedItem, error) {
	rows, err := q.db.QueryContext(ctx, listPlannedItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PlannedItem
	for rows.Next() {
		i, err := scanPlanned(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getPlannedItem = `SELECT ` + plannedColumns + ` FROM planned_items WHERE id = ?`

func (q *Queries) GetPlannedItem(ctx context.Context, id string) (PlannedItem, error) {
	row := q.db.QueryRowContext(ctx, getPlannedItem, id)
	return scanPlanned(row)
}

const upsertPlannedItem = `
INSERT INTO planned_items (
    id, title, amount_minor, category, kind, frequency, anchor,
    reminder_enabled, last_completed_on, starts_on, last_reminded_on
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    title = excluded.title,
    amount_minor = excluded.amount_minor,
    category = excluded.category,
    kind = excluded.kind,
    frequency = excluded.frequency,
    anchor = excluded.anchor,
    reminder_enabled = excluded.reminder_enabled,
    last_completed_on = excluded.last_completed_on,
    starts_on = excluded.starts_on,
    last_reminded_on = excluded.last_reminded_on,
    updated_at = CURRENT_TIMESTAMP
`

func (q *Queries) UpsertPlannedItem(ctx context.Context, arg PlannedItem) error {
	_, err := q.db.ExecContext(ctx, upsertPlannedItem,
		arg.ID, arg.Title, arg.AmountMinor, arg.Category, arg.Kind, arg.Frequency, arg.Anchor,
		arg.ReminderEnabled, arg.LastCompletedOn, arg.StartsOn, arg.LastRemindedOn,
	)
	return err
}

const setPlannedReminded = `
UPDATE planned_items SET last_reminded_on = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`

func (q *Queries) SetPlannedReminded(ctx context.Context, id string, on sql.NullString) (int64, error) {
	result, err := q.db.ExecContext(ctx, setPlannedReminded, on, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deletePlannedItem = `DELETE FROM planned_items WHERE id = ?`

func (q *Queries) DeletePlannedItem(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePlannedItem, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getBudget = `SELECT monthly_limit_minor, savings_target_minor FROM budget WHERE id = 1`

func (q *Queries) GetBudget(ctx context.Context) (Budget, error) {
	row := q.db.QueryRowContext(ctx, getBudget)
	var i Budget
	err := row.Scan(&i.MonthlyLimitMinor, &i.SavingsTargetMinor)
	return i, err
}

const upsertBudget = `
INSERT INTO budget (id, monthly_limit_minor, savings_target_minor) VALUES (1, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    monthly_limit_minor = excluded.monthly_limit_minor,
    savings_target_minor = excluded.savings_target_minor,
    updated_at = CURRENT_TIMESTAMP
`

func (q *Queries) UpsertBudget(ctx context.Context, arg Budget) error {
	_, err := q.db.ExecContext(ctx, upsertBudget, arg.MonthlyLimitMinor, arg.SavingsTargetMinor)
	return err
}

const listCategoryLimits = `SELECT category, limit_minor FROM category_limits ORDER BY category`

func (q *Queries) ListCategoryLimits(ctx context.Context) ([]CategoryLimit, error) {
	rows, err := q.db.QueryContext(ctx, listCategoryLimits)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategoryLimit
	for rows.Next() {
		var i CategoryLimit
		if err := rows.Scan(&i.Category, &i.LimitMinor); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const clearCategoryLimits = `DELETE FROM category_limits`

func (q *Queries) ClearCategoryLimits(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, clearCategoryLimits)
	return err
}

const insertCategoryLimit = `INSERT INTO category_limits (category, limit_minor) VALUES (?, ?)`

func (q *Queries) InsertCategoryLimit(ctx context.Context, arg CategoryLimit) error {
	_, err := q.db.ExecContext(ctx, insertCategoryLimit, arg.Category, arg.LimitMinor)
	return err
}

const listCategoriesByKind = `SELECT name FROM categories WHERE kind = ? ORDER BY sort_order, name`

func (q *Queries) ListCategoriesByKind(ctx context.Context, kind string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listCategoriesByKind, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		items = append(items, name)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPlanned(s scanner) (PlannedItem, error) {
	var i PlannedItem
	err := s.Scan(
		&i.ID, &i.Title, &i.AmountMinor, &i.Category, &i.Kind, &i.Frequency, &i.Anchor,
		&i.ReminderEnabled, &i.LastCompletedOn, &i.StartsOn, &i.LastRemindedOn,
	)
	return i, err
}
