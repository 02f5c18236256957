// Package aggregate rolls dated transactions up into period totals.
package aggregate

import (
	"budgetflow/internal/calendar"
	"budgetflow/internal/core"
)

type options struct {
	strict bool
}

// Option tunes a single aggregation call.
type Option func(*options)

// Strict makes an empty window an *core.EmptyPeriodError instead of a zeroed
// aggregate.
func Strict() Option {
	return func(o *options) { o.strict = true }
}

// Aggregate totals the transactions that fall inside the period window
// containing today.
func Aggregate(txns []core.Transaction, period calendar.PeriodKind, today calendar.Date, opts ...Option) (core.PeriodAggregate, error) {
	w, err := calendar.WindowOf(period, today)
	if err != nil {
		return core.PeriodAggregate{}, err
	}
	return AggregateWindow(txns, w, opts...)
}

// AggregateWindow totals the transactions inside w. Debt transactions are
// kept out of income and expense and summarised in the Debt field.
func AggregateWindow(txns []core.Transaction, w calendar.Window, opts ...Option) (core.PeriodAggregate, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	agg := core.PeriodAggregate{Period: w.Kind, RangeStart: w.Start, RangeEnd: w.End}
	for _, tx := range txns {
		if !w.Contains(tx.OccurredOn) {
			continue
		}
		switch tx.Kind {
		case core.KindIncome:
			agg.TotalIncome = agg.TotalIncome.Add(tx.Amount)
			agg.TransactionCount++
		case core.KindExpense:
			agg.TotalExpense = agg.TotalExpense.Add(tx.Amount)
			agg.TransactionCount++
		case core.KindDebt:
			addDebt(&agg.Debt, tx)
		}
	}
	agg.NetSavings = agg.TotalIncome.Sub(agg.TotalExpense)

	if o.strict && agg.TransactionCount == 0 {
		return core.PeriodAggregate{}, &core.EmptyPeriodError{Window: w}
	}
	return agg, nil
}

func addDebt(s *core.DebtSummary, tx core.Transaction) {
	s.Count++
	if tx.Debt == nil {
		return
	}
	switch tx.Debt.Direction {
	case core.Borrowed:
		s.Borrowed = s.Borrowed.Add(tx.Amount)
	case core.Lent:
		s.Lent = s.Lent.Add(tx.Amount)
	}
	if tx.Debt.Status != core.DebtPaid {
		s.Unpaid = s.Unpaid.Add(tx.Amount)
	}
}

// InWindow returns the transactions of the given kind that fall inside w, in
// input order.
func InWindow(txns []core.Transaction, w calendar.Window, kind core.TransactionKind) []core.Transaction {
	var out []core.Transaction
	for _, tx := range txns {
		if tx.Kind == kind && w.Contains(tx.OccurredOn) {
			out = append(out, tx)
		}
	}
	return out
}
