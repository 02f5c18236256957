package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"budgetflow/internal/core"
	"budgetflow/internal/services"
)

// money renders minor units in the configured currency, e.g. "1 250.00 USD".
func (e *env) money(m core.Money) string {
	d := e.decimals()
	v := decimal.New(m.Minor, int32(-d)).StringFixed(int32(d))
	return fmt.Sprintf("%s %s", groupThousands(v), e.app.Config.Currency)
}

func groupThousands(s string) string {
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			intPart, frac = s[:i], s[i:]
			break
		}
	}
	out := make([]byte, 0, len(intPart)+len(intPart)/3)
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, intPart[i])
	}
	return sign + string(out) + frac
}

func (e *env) renderAggregate(a core.PeriodAggregate) {
	fmt.Fprintf(e.out, "%-9s %s .. %s  income %s  expense %s  net %s  (%d transactions)\n",
		a.Period, a.RangeStart, a.RangeEnd.AddDays(-1),
		e.money(a.TotalIncome), e.money(a.TotalExpense), e.money(a.NetSavings), a.TransactionCount)
	if a.Debt.Count > 0 {
		fmt.Fprintf(e.out, "          debts: borrowed %s  lent %s  unpaid %s\n",
			e.money(a.Debt.Borrowed), e.money(a.Debt.Lent), e.money(a.Debt.Unpaid))
	}
}

func (e *env) renderReport(r *services.Report) {
	e.renderAggregate(r.Aggregate)

	if len(r.TopCategories) > 0 {
		fmt.Fprintln(e.out, "\nTop categories")
		tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
		for _, c := range r.TopCategories {
			fmt.Fprintf(tw, "  %s\t%s\t%s%%\t%s %s%%\n",
				c.Category, e.money(c.Amount),
				c.PercentageOfTotal.Mul(decimal.NewFromInt(100)).StringFixed(1),
				c.Trend, c.ChangePercent.StringFixed(1))
		}
		tw.Flush()
	}

	if len(r.Insights) > 0 {
		fmt.Fprintln(e.out, "\nInsights")
		for _, in := range r.Insights {
			fmt.Fprintf(e.out, "  [%s] %s\n", in.Severity, in.Message)
		}
	}

	if len(r.Planned) > 0 {
		fmt.Fprintln(e.out, "\nPlanned")
		e.renderPlanned(r.Planned)
	}
}

func (e *env) renderPlanned(list []services.PlannedStatus) {
	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	for _, p := range list {
		if p.Problem != "" {
			fmt.Fprintf(tw, "  %s\t%s\t%s\tinvalid: %s\n", p.Item.ID, p.Item.Title, e.money(p.Item.Amount), p.Problem)
			continue
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%+d\n",
			p.Item.ID, p.Item.Title, e.money(p.Item.Amount),
			p.Schedule.Status, p.Schedule.NextOccurrence, p.Schedule.DaysUntil)
	}
	tw.Flush()
}

func (e *env) renderBudget(b *core.BudgetConfig) {
	if !b.Configured() {
		fmt.Fprintln(e.out, "no budget configured")
		return
	}
	fmt.Fprintf(e.out, "monthly limit:  %s\n", e.money(b.MonthlyLimit))
	fmt.Fprintf(e.out, "savings target: %s\n", e.money(b.SavingsTarget))
	for _, k := range sortedKeys(b.PerCategoryLimits) {
		fmt.Fprintf(e.out, "  %s: %s\n", k, e.money(b.PerCategoryLimits[k]))
	}
}
