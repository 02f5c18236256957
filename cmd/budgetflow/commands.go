package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"budgetflow/internal/calendar"
	"budgetflow/internal/cli"
	"budgetflow/internal/core"
	"budgetflow/internal/sheets"
	"budgetflow/internal/services"
)

var errUsage = errors.New("usage")

type env struct {
	app          *cli.App
	out          io.Writer
	reportWriter func(ctx context.Context) (sheets.ReportWriter, error)
}

func (e *env) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "report":
		return e.report(ctx, args)
	case "dashboard":
		return e.dashboard(ctx, args)
	case "planned":
		return e.planned(ctx, args)
	case "pay":
		return e.pay(ctx, args)
	case "add":
		return e.add(ctx, args)
	case "delete":
		return e.delete(ctx, args)
	case "budget":
		return e.budget(ctx, args)
	case "categories":
		return e.categories(ctx)
	case "export":
		return e.export(ctx, args)
	default:
		return errUsage
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// now returns the reference instant: noon of -date in the configured zone,
// or the clock when no date was given.
func (e *env) now(date string) (time.Time, error) {
	if date == "" {
		return e.app.Clock.Now(), nil
	}
	d, err := calendar.ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	loc := e.app.Clock.Now().Location()
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc), nil
}

func (e *env) decimals() int { return e.app.Config.CurrencyDecimals() }

func (e *env) report(ctx context.Context, args []string) error {
	fs := newFlagSet("report")
	period := fs.String("period", "monthly", "daily|weekly|monthly|quarterly|yearly")
	date := fs.String("date", "", "reference date (YYYY-MM-DD)")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	kind, err := calendar.ParsePeriodKind(*period)
	if err != nil {
		return err
	}
	now, err := e.now(*date)
	if err != nil {
		return err
	}
	r, err := e.app.Analytics.Snapshot(ctx, kind, now)
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(e.out, r)
	}
	e.renderReport(r)
	return nil
}

func (e *env) dashboard(ctx context.Context, args []string) error {
	fs := newFlagSet("dashboard")
	date := fs.String("date", "", "reference date (YYYY-MM-DD)")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	now, err := e.now(*date)
	if err != nil {
		return err
	}
	reports, err := e.app.Analytics.Dashboard(ctx, now)
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(e.out, reports)
	}
	for _, r := range reports {
		e.renderAggregate(r.Aggregate)
	}
	return nil
}

func (e *env) planned(ctx context.Context, args []string) error {
	fs := newFlagSet("planned")
	date := fs.String("date", "", "reference date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	now, err := e.now(*date)
	if err != nil {
		return err
	}
	list, err := e.app.Planned.List(ctx, now)
	if err != nil {
		return err
	}
	e.renderPlanned(list)
	return nil
}

func (e *env) pay(ctx context.Context, args []string) error {
	fs := newFlagSet("pay")
	id := fs.String("id", "", "planned item id")
	date := fs.String("date", "", "payment date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}
	now, err := e.now(*date)
	if err != nil {
		return err
	}
	st, tx, err := e.app.Planned.MarkPaid(ctx, *id, now)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "%s paid (%s), next due %s\n", st.Item.Title, e.money(tx.Amount), st.Schedule.NextOccurrence)
	fmt.Fprintf(e.out, "recorded transaction %s\n", tx.ID)
	return nil
}

func (e *env) add(ctx context.Context, args []string) error {
	fs := newFlagSet("add")
	kind := fs.String("kind", "expense", "income|expense|debt")
	amount := fs.String("amount", "", "amount in major units, e.g. 12.50")
	category := fs.String("category", "", "category name")
	date := fs.String("date", "", "transaction date (YYYY-MM-DD), default today")
	notes := fs.String("notes", "", "optional notes")
	party := fs.String("party", "", "debt counterparty")
	direction := fs.String("direction", string(core.Borrowed), "debt direction: borrowed|lent")
	due := fs.String("due", "", "debt due date (YYYY-MM-DD)")
	status := fs.String("status", string(core.DebtUnpaid), "debt status: unpaid|paid")
	if err := fs.Parse(args); err != nil {
		return err
	}

	k, err := core.ParseTransactionKind(*kind)
	if err != nil {
		return err
	}
	m, err := core.ParseDecimalToMinor(*amount, e.decimals())
	if err != nil {
		return err
	}
	now, err := e.now(*date)
	if err != nil {
		return err
	}

	tx := core.Transaction{
		Kind:       k,
		Amount:     m,
		Category:   *category,
		OccurredOn: calendar.DateOf(now),
		Notes:      *notes,
	}
	if k == core.KindDebt {
		dd := &core.DebtDetails{
			Party:     *party,
			Direction: core.DebtDirection(*direction),
			Status:    core.DebtStatus(*status),
		}
		if *due != "" {
			if dd.DueDate, err = calendar.ParseDate(*due); err != nil {
				return err
			}
		}
		tx.Debt = dd
	}

	saved, err := e.app.Transactions.Add(ctx, tx)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "recorded %s %s %s on %s (%s)\n", saved.Kind, e.money(saved.Amount), saved.Category, saved.OccurredOn, saved.ID)
	return nil
}

func (e *env) delete(ctx context.Context, args []string) error {
	fs := newFlagSet("delete")
	id := fs.String("id", "", "transaction id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := e.app.Transactions.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "deleted %s\n", *id)
	return nil
}

func (e *env) budget(ctx context.Context, args []string) error {
	fs := newFlagSet("budget")
	monthly := fs.String("monthly", "", "monthly spending limit")
	savings := fs.String("savings", "", "savings target")
	var limits limitFlags
	fs.Var(&limits, "limit", "per-category limit as Category=amount (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	current, err := e.app.Store.GetBudget(ctx)
	if err != nil {
		return err
	}
	if *monthly == "" && *savings == "" && len(limits) == 0 {
		e.renderBudget(current)
		return nil
	}

	var b core.BudgetConfig
	if current != nil {
		b = *current
	}
	if *monthly != "" {
		if b.MonthlyLimit, err = core.ParseDecimalToMinor(*monthly, e.decimals()); err != nil {
			return fmt.Errorf("monthly: %w", err)
		}
	}
	if *savings != "" {
		if b.SavingsTarget, err = core.ParseDecimalToMinor(*savings, e.decimals()); err != nil {
			return fmt.Errorf("savings: %w", err)
		}
	}
	if len(limits) > 0 {
		merged := make(map[string]core.Money, len(b.PerCategoryLimits)+len(limits))
		for k, v := range b.PerCategoryLimits {
			merged[k] = v
		}
		for _, l := range limits {
			m, err := core.ParseDecimalToMinor(l.amount, e.decimals())
			if err != nil {
				return fmt.Errorf("limit %s: %w", l.category, err)
			}
			merged[l.category] = m
		}
		b.PerCategoryLimits = merged
	}

	if err := e.app.Store.SaveBudget(ctx, b); err != nil {
		return err
	}
	e.app.Revision.Bump()
	e.renderBudget(&b)
	return nil
}

func (e *env) categories(ctx context.Context) error {
	exp, inc, err := e.app.Store.ListCategories(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "expense: %s\n", strings.Join(exp, ", "))
	fmt.Fprintf(e.out, "income:  %s\n", strings.Join(inc, ", "))
	return nil
}

func (e *env) export(ctx context.Context, args []string) error {
	fs := newFlagSet("export")
	period := fs.String("period", "monthly", "daily|weekly|monthly|quarterly|yearly")
	date := fs.String("date", "", "reference date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	kind, err := calendar.ParsePeriodKind(*period)
	if err != nil {
		return err
	}
	now, err := e.now(*date)
	if err != nil {
		return err
	}
	w, err := e.reportWriter(ctx)
	if err != nil {
		return err
	}
	svc := services.NewExportService(e.app.Analytics, w, e.app.Config.Currency, e.decimals(), e.app.Logger)
	ref, err := svc.Export(ctx, kind, now)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "exported %s report to %s\n", kind, ref)
	return nil
}

type categoryLimit struct {
	category string
	amount   string
}

// limitFlags collects repeated -limit Category=amount flags.
type limitFlags []categoryLimit

func (l *limitFlags) String() string {
	parts := make([]string, len(*l))
	for i, c := range *l {
		parts[i] = c.category + "=" + c.amount
	}
	return strings.Join(parts, ",")
}

func (l *limitFlags) Set(v string) error {
	cat, amt, ok := strings.Cut(v, "=")
	cat = strings.TrimSpace(cat)
	if !ok || cat == "" || strings.TrimSpace(amt) == "" {
		return fmt.Errorf("limit must look like Category=amount, got %q", v)
	}
	*l = append(*l, categoryLimit{category: cat, amount: strings.TrimSpace(amt)})
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func sortedKeys(m map[string]core.Money) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
