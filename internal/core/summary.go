package core

import (
	"fmt"

	"github.com/shopspring/decimal"

	"budgetflow/internal/calendar"
)

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

const (
	InsightAlert        InsightKind = "alert"
	InsightOptimization InsightKind = "optimization"
	InsightAchievement  InsightKind = "achievement"
	InsightReminder     InsightKind = "reminder"
)

const (
	SeverityLow Severity = iota + 1
	SeverityMedium
	SeverityHigh
)

const (
	StatusUpcoming  ScheduleStatus = "upcoming"
	StatusDueToday  ScheduleStatus = "due_today"
	StatusOverdue   ScheduleStatus = "overdue"
	StatusCompleted ScheduleStatus = "completed"
)

type (
	Trend          string
	InsightKind    string
	Severity       int
	ScheduleStatus string

	// DebtSummary totals the debt transactions that fall inside a window.
	DebtSummary struct {
		Borrowed Money `json:"borrowed"`
		Lent     Money `json:"lent"`
		Unpaid   Money `json:"unpaid"`
		Count    int   `json:"count"`
	}

	// PeriodAggregate is the income/expense rollup of one window. RangeEnd is
	// exclusive and NetSavings always equals TotalIncome - TotalExpense.
	PeriodAggregate struct {
		Period           calendar.PeriodKind `json:"period"`
		RangeStart       calendar.Date       `json:"range_start"`
		RangeEnd         calendar.Date       `json:"range_end"`
		TotalIncome      Money               `json:"total_income"`
		TotalExpense     Money               `json:"total_expense"`
		NetSavings       Money               `json:"net_savings"`
		TransactionCount int                 `json:"transaction_count"`
		Debt             DebtSummary         `json:"debt"`
	}

	// CategoryRank is one entry of the top spending categories.
	CategoryRank struct {
		Category          string          `json:"category"`
		Amount            Money           `json:"amount"`
		PercentageOfTotal decimal.Decimal `json:"percentage_of_total"` // fraction in [0, 1]
		PreviousAmount    Money           `json:"previous_amount"`
		ChangePercent     decimal.Decimal `json:"change_percent"` // percent vs previous window
		Trend             Trend           `json:"trend"`
	}

	// Insight is a rule-based recommendation or alert.
	Insight struct {
		Kind            InsightKind     `json:"kind"`
		Severity        Severity        `json:"severity"`
		Rule            string          `json:"rule"`
		Message         string          `json:"message"`
		RelatedCategory string          `json:"related_category,omitempty"`
		Amount          Money           `json:"amount"`
		Percent         decimal.Decimal `json:"percent"`
	}

	// ScheduleResult is the derived state of a planned item at a given "now".
	ScheduleResult struct {
		NextOccurrence calendar.Date  `json:"next_occurrence"`
		Status         ScheduleStatus `json:"status"`
		DaysUntil      int            `json:"days_until"` // negative when overdue
	}
)

// Window returns the aggregate's window.
func (a PeriodAggregate) Window() calendar.Window {
	return calendar.Window{Kind: a.Period, Start: a.RangeStart, End: a.RangeEnd}
}

// ExpenseRatio returns TotalExpense / TotalIncome. ok is false when there is
// no income to compare against.
func (a PeriodAggregate) ExpenseRatio() (ratio decimal.Decimal, ok bool) {
	if !a.TotalIncome.IsPositive() {
		return decimal.Zero, false
	}
	return a.TotalExpense.Decimal().Div(a.TotalIncome.Decimal()), true
}

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	case SeverityLow:
		return "low"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "high":
		*s = SeverityHigh
	case "medium":
		*s = SeverityMedium
	case "low":
		*s = SeverityLow
	default:
		return fmt.Errorf("unknown severity %q", b)
	}
	return nil
}
