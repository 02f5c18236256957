package core

import (
	"errors"
	"fmt"
	"strings"

	"budgetflow/internal/calendar"
)

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
	KindDebt    TransactionKind = "debt"
)

const (
	Weekly    Frequency = "weekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
)

const (
	Borrowed DebtDirection = "borrowed"
	Lent     DebtDirection = "lent"
)

const (
	DebtUnpaid DebtStatus = "unpaid"
	DebtPaid   DebtStatus = "paid"
)

const maxNotesLength = 500

type (
	TransactionKind string
	Frequency       string
	DebtDirection   string
	DebtStatus      string

	// Transaction is a single dated money movement entered by the user.
	Transaction struct {
		ID         string          `json:"id"`
		Kind       TransactionKind `json:"kind"`
		Amount     Money           `json:"amount"`
		Category   string          `json:"category"`
		OccurredOn calendar.Date   `json:"occurred_on"`
		Notes      string          `json:"notes,omitempty"`
		Debt       *DebtDetails    `json:"debt,omitempty"` // only when Kind == KindDebt
	}

	// DebtDetails carries the fields that exist only for debt transactions.
	DebtDetails struct {
		Party     string        `json:"party"`
		Direction DebtDirection `json:"direction"`
		DueDate   calendar.Date `json:"due_date"`
		Status    DebtStatus    `json:"status"`
	}

	// PlannedItem is a recurring income or expense obligation.
	PlannedItem struct {
		ID              string          `json:"id"`
		Title           string          `json:"title"`
		Amount          Money           `json:"amount"`
		Category        string          `json:"category"`
		Kind            TransactionKind `json:"kind"`
		Frequency       Frequency       `json:"frequency"`
		Anchor          int             `json:"anchor"` // ISO weekday for weekly, day of month otherwise
		ReminderEnabled bool            `json:"reminder_enabled"`
		LastCompletedOn calendar.Date   `json:"last_completed_on"` // zero when never completed
		StartsOn        calendar.Date   `json:"starts_on"`         // optional first due date bound
		LastRemindedOn  calendar.Date   `json:"last_reminded_on"`
	}

	// BudgetConfig is the optional user budget. A nil *BudgetConfig means the
	// user has not configured any budget.
	BudgetConfig struct {
		MonthlyLimit      Money            `json:"monthly_limit"`
		PerCategoryLimits map[string]Money `json:"per_category_limits,omitempty"`
		SavingsTarget     Money            `json:"savings_target"`
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyCategory      = errors.New("empty category")
	ErrEmptyTitle         = errors.New("empty title")
	ErrZeroDate           = errors.New("date cannot be zero")
	ErrUnknownKind        = errors.New("unknown transaction kind")
	ErrMissingDebtParty   = errors.New("debt requires a counterparty")
	ErrUnexpectedDebtData = errors.New("debt details on a non-debt transaction")
	ErrNotesTooLong       = fmt.Errorf("notes too long (max %d characters)", maxNotesLength)
)

// ParseTransactionKind rejects anything outside income, expense and debt.
func ParseTransactionKind(s string) (TransactionKind, error) {
	k := TransactionKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindIncome, KindExpense, KindDebt:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// ParseFrequency rejects anything outside weekly, monthly, quarterly and yearly.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("unknown frequency %q", s)
	}
	return f, nil
}

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case Weekly, Monthly, Quarterly, Yearly:
		return true
	default:
		return false
	}
}

// Period returns the calendar window kind that one cycle of f spans.
func (f Frequency) Period() calendar.PeriodKind {
	switch f {
	case Weekly:
		return calendar.Weekly
	case Quarterly:
		return calendar.Quarterly
	case Yearly:
		return calendar.Yearly
	default:
		return calendar.Monthly
	}
}

// MonthStep is the number of months between two occurrences (0 for weekly).
func (f Frequency) MonthStep() int {
	switch f {
	case Monthly:
		return 1
	case Quarterly:
		return 3
	case Yearly:
		return 12
	default:
		return 0
	}
}

// AnchorRange returns the inclusive bounds of a valid anchor for f.
func (f Frequency) AnchorRange() (int, int) {
	if f == Weekly {
		return 1, 7
	}
	return 1, 31
}

func (t Transaction) Validate() error {
	if t.OccurredOn.IsZero() {
		return ErrZeroDate
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(t.Notes) > maxNotesLength {
		return ErrNotesTooLong
	}
	switch t.Kind {
	case KindIncome, KindExpense:
		if strings.TrimSpace(t.Category) == "" {
			return ErrEmptyCategory
		}
		if t.Debt != nil {
			return ErrUnexpectedDebtData
		}
	case KindDebt:
		if t.Debt == nil || strings.TrimSpace(t.Debt.Party) == "" {
			return ErrMissingDebtParty
		}
		switch t.Debt.Direction {
		case Borrowed, Lent:
		default:
			return fmt.Errorf("invalid debt direction %q", t.Debt.Direction)
		}
		switch t.Debt.Status {
		case DebtPaid, DebtUnpaid:
		default:
			return fmt.Errorf("invalid debt status %q", t.Debt.Status)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, t.Kind)
	}
	return nil
}

// Validate checks the static shape of a planned item. Anchor and frequency
// problems are reported as *InvalidScheduleError.
func (p PlannedItem) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(p.Category) == "" {
		return ErrEmptyCategory
	}
	if p.Kind != KindIncome && p.Kind != KindExpense {
		return fmt.Errorf("%w: planned items must be income or expense, got %q", ErrUnknownKind, p.Kind)
	}
	if !p.Frequency.Valid() {
		return &InvalidScheduleError{ItemID: p.ID, Reason: fmt.Sprintf("unknown frequency %q", p.Frequency)}
	}
	lo, hi := p.Frequency.AnchorRange()
	if p.Anchor < lo || p.Anchor > hi {
		return &InvalidScheduleError{
			ItemID: p.ID,
			Reason: fmt.Sprintf("anchor %d out of range %d-%d for %s frequency", p.Anchor, lo, hi, p.Frequency),
		}
	}
	return nil
}

// Configured reports whether any budget limit or target is set.
func (b *BudgetConfig) Configured() bool {
	if b == nil {
		return false
	}
	return b.MonthlyLimit.IsPositive() || b.SavingsTarget.IsPositive() || len(b.PerCategoryLimits) > 0
}

// CategoryLimit returns the soft limit for category, if one is configured.
func (b *BudgetConfig) CategoryLimit(category string) (Money, bool) {
	if b == nil {
		return Money{}, false
	}
	limit, ok := b.PerCategoryLimits[category]
	if !ok || !limit.IsPositive() {
		return Money{}, false
	}
	return limit, true
}
