package insight

import (
	"fmt"

	"github.com/shopspring/decimal"

	"budgetflow/internal/calendar"
	"budgetflow/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Rule names, in declaration order.
const (
	RuleOverspend        = "overspend"
	RuleMonthlyLimit     = "monthly_limit"
	RuleSpendingIncrease = "spending_increase"
	RuleOptimization     = "budget_optimization"
	RuleAchievement      = "savings_achievement"
	RuleDailyLimit       = "daily_limit"
	RuleReminder         = "budget_review"
)

// Input is everything a rule may look at. Ranks is the top-N list shown to
// the user; Categories, when set, holds every expense category of the window.
// Today is the day the input was built for; rules that need it stay silent
// when it is zero.
type Input struct {
	Aggregate  core.PeriodAggregate
	Ranks      []core.CategoryRank
	Categories []core.CategoryRank
	Budget     *core.BudgetConfig
	Today      calendar.Date
}

func (in Input) categories() []core.CategoryRank {
	if in.Categories != nil {
		return in.Categories
	}
	return in.Ranks
}

func (in Input) monthly() bool {
	return in.Aggregate.Period == calendar.Monthly
}

// RuleFunc evaluates one rule. It returns nil when the rule does not match.
type RuleFunc func(in Input, cfg Config) []core.Insight

// Rule pairs a rule name with its evaluation.
type Rule struct {
	Name string
	Eval RuleFunc
}

// DefaultRules returns the built-in rule set in declaration order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: RuleOverspend, Eval: OverspendAlerts},
		{Name: RuleMonthlyLimit, Eval: MonthlyLimitAlert},
		{Name: RuleSpendingIncrease, Eval: SpendingIncrease},
		{Name: RuleOptimization, Eval: BudgetOptimization},
		{Name: RuleAchievement, Eval: SavingsAchievement},
		{Name: RuleDailyLimit, Eval: DailySpendingLimit},
		{Name: RuleReminder, Eval: BudgetReviewReminder},
	}
}

// OverspendAlerts emits one alert per category whose amount exceeds its
// configured limit by more than cfg.OverspendThreshold. Category limits are
// monthly amounts, so only monthly aggregates are checked.
func OverspendAlerts(in Input, cfg Config) []core.Insight {
	if !in.monthly() {
		return nil
	}
	var out []core.Insight
	for _, r := range in.categories() {
		limit, ok := in.Budget.CategoryLimit(r.Category)
		if !ok {
			continue
		}
		over := r.Amount.Sub(limit)
		if !over.IsPositive() {
			continue
		}
		pct := over.Decimal().Div(limit.Decimal())
		if !pct.GreaterThan(cfg.OverspendThreshold) {
			continue
		}
		pct = pct.Mul(hundred).Round(1)
		out = append(out, core.Insight{
			Kind:            core.InsightAlert,
			Severity:        core.SeverityHigh,
			Rule:            RuleOverspend,
			Message:         fmt.Sprintf("%s spending is %s%% over its limit of %s", r.Category, pct, limit),
			RelatedCategory: r.Category,
			Amount:          over,
			Percent:         pct,
		})
	}
	return out
}

// MonthlyLimitAlert fires for monthly aggregates whose total expense is above
// the configured monthly limit.
func MonthlyLimitAlert(in Input, _ Config) []core.Insight {
	if in.Budget == nil || !in.Budget.MonthlyLimit.IsPositive() || !in.monthly() {
		return nil
	}
	limit := in.Budget.MonthlyLimit
	over := in.Aggregate.TotalExpense.Sub(limit)
	if !over.IsPositive() {
		return nil
	}
	pct := over.Decimal().Div(limit.Decimal()).Mul(hundred).Round(1)
	return []core.Insight{{
		Kind:     core.InsightAlert,
		Severity: core.SeverityHigh,
		Rule:     RuleMonthlyLimit,
		Message:  fmt.Sprintf("Monthly expenses exceed the budget of %s by %s", limit, over),
		Amount:   over,
		Percent:  pct,
	}}
}

// SpendingIncrease flags categories whose spend grew by more than
// cfg.SpendingIncreaseThreshold over the previous window. Categories with no
// previous spend are left out.
func SpendingIncrease(in Input, cfg Config) []core.Insight {
	limit := cfg.SpendingIncreaseThreshold.Mul(hundred)
	var out []core.Insight
	for _, r := range in.categories() {
		if !r.PreviousAmount.IsPositive() || !r.ChangePercent.GreaterThan(limit) {
			continue
		}
		pct := r.ChangePercent.Round(1)
		out = append(out, core.Insight{
			Kind:            core.InsightAlert,
			Severity:        core.SeverityMedium,
			Rule:            RuleSpendingIncrease,
			Message:         fmt.Sprintf("You spent %s%% more on %s than in the previous %s period", pct, r.Category, in.Aggregate.Period),
			RelatedCategory: r.Category,
			Amount:          r.Amount.Sub(r.PreviousAmount),
			Percent:         pct,
		})
	}
	return out
}

// BudgetOptimization suggests cutting the top category when expenses take
// more than cfg.ExpenseRatioThreshold of income.
func BudgetOptimization(in Input, cfg Config) []core.Insight {
	if len(in.Ranks) == 0 {
		return nil
	}
	ratio, ok := in.Aggregate.ExpenseRatio()
	if !ok || !ratio.GreaterThan(cfg.ExpenseRatioThreshold) {
		return nil
	}
	top := in.Ranks[0]
	savings := core.MoneyFromDecimal(top.Amount.Decimal().Mul(cfg.SuggestedCutPercent))
	cut := cfg.SuggestedCutPercent.Mul(hundred)
	return []core.Insight{{
		Kind:            core.InsightOptimization,
		Severity:        core.SeverityMedium,
		Rule:            RuleOptimization,
		Message:         fmt.Sprintf("Reducing %s by %s%% would save %s", top.Category, cut, savings),
		RelatedCategory: top.Category,
		Amount:          savings,
		Percent:         cut,
	}}
}

// SavingsAchievement fires when the month's net savings reach
// cfg.SavingsAchievementRatio of the monthly savings target.
func SavingsAchievement(in Input, cfg Config) []core.Insight {
	if in.Budget == nil || !in.Budget.SavingsTarget.IsPositive() || !in.monthly() {
		return nil
	}
	progress := in.Aggregate.NetSavings.Decimal().Div(in.Budget.SavingsTarget.Decimal())
	if progress.LessThan(cfg.SavingsAchievementRatio) {
		return nil
	}
	pct := progress.Mul(hundred).Round(1)
	return []core.Insight{{
		Kind:     core.InsightAchievement,
		Severity: core.SeverityLow,
		Rule:     RuleAchievement,
		Message:  fmt.Sprintf("You reached %s%% of your savings target", pct),
		Amount:   in.Aggregate.NetSavings,
		Percent:  pct,
	}}
}

// DailySpendingLimit spreads cfg.DailyLimitShare of the month's remaining
// balance over the days left in the month, today included.
func DailySpendingLimit(in Input, cfg Config) []core.Insight {
	if !in.monthly() || !in.Aggregate.NetSavings.IsPositive() || !in.Aggregate.Window().Contains(in.Today) {
		return nil
	}
	daysLeft := in.Today.DaysUntil(in.Aggregate.RangeEnd)
	if daysLeft <= 0 {
		return nil
	}
	balance := in.Aggregate.NetSavings
	daily := core.MoneyFromDecimal(balance.Decimal().Mul(cfg.DailyLimitShare).Div(decimal.NewFromInt(int64(daysLeft))))
	if !daily.IsPositive() {
		return nil
	}
	return []core.Insight{{
		Kind:     core.InsightOptimization,
		Severity: core.SeverityLow,
		Rule:     RuleDailyLimit,
		Message:  fmt.Sprintf("Your balance is %s, consider spending at most %s per day for the next %d days", balance, daily, daysLeft),
		Amount:   daily,
		Percent:  cfg.DailyLimitShare.Mul(hundred),
	}}
}

// BudgetReviewReminder asks the user to set up a budget when none exists.
func BudgetReviewReminder(in Input, _ Config) []core.Insight {
	if in.Budget.Configured() {
		return nil
	}
	return []core.Insight{{
		Kind:     core.InsightReminder,
		Severity: core.SeverityLow,
		Rule:     RuleReminder,
		Message:  "Set a monthly budget to get spending alerts",
	}}
}
