package insight

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetflow/internal/calendar"
	"budgetflow/internal/core"
)

func monthlyAggregate(income, expense int64) core.PeriodAggregate {
	return core.PeriodAggregate{
		Period:       calendar.Monthly,
		RangeStart:   calendar.NewDate(2024, 1, 1),
		RangeEnd:     calendar.NewDate(2024, 2, 1),
		TotalIncome:  core.NewMoney(income),
		TotalExpense: core.NewMoney(expense),
		NetSavings:   core.NewMoney(income - expense),
	}
}

func sampleRanks() []core.CategoryRank {
	return []core.CategoryRank{
		{Category: "Food & Drinks", Amount: core.NewMoney(850000)},
		{Category: "Bills", Amount: core.NewMoney(700000)},
		{Category: "Transport", Amount: core.NewMoney(340000)},
		{Category: "Shopping", Amount: core.NewMoney(360000)},
	}
}

func kinds(insights []core.Insight) []core.InsightKind {
	out := make([]core.InsightKind, len(insights))
	for i, in := range insights {
		out[i] = in.Kind
	}
	return out
}

func TestGenerate_ExpenseRatioThreshold(t *testing.T) {
	agg := monthlyAggregate(3500000, 2250000)
	ratio, ok := agg.ExpenseRatio()
	require.True(t, ok)
	require.Equal(t, "0.643", ratio.StringFixed(3))

	got := Generate(agg, sampleRanks(), nil)

	var optimizations []core.Insight
	for _, in := range got {
		if in.Kind == core.InsightOptimization {
			optimizations = append(optimizations, in)
		}
	}
	require.Len(t, optimizations, 1)
	assert.Equal(t, "Food & Drinks", optimizations[0].RelatedCategory)
	assert.Equal(t, int64(127500), optimizations[0].Amount.Minor)
	assert.True(t, optimizations[0].Percent.Equal(decimal.NewFromInt(15)))

	assert.Equal(t, []core.InsightKind{core.InsightOptimization, core.InsightReminder}, kinds(got))
}

func TestGenerate_BelowRatioThreshold(t *testing.T) {
	got := Generate(monthlyAggregate(3500000, 2000000), sampleRanks(), nil)
	assert.Equal(t, []core.InsightKind{core.InsightReminder}, kinds(got))
}

func TestGenerate_SeverityOrder(t *testing.T) {
	budget := &core.BudgetConfig{
		MonthlyLimit:      core.NewMoney(2000000),
		SavingsTarget:     core.NewMoney(1000000),
		PerCategoryLimits: map[string]core.Money{"Transport": core.NewMoney(300000)},
	}
	got := Generate(monthlyAggregate(3500000, 2250000), sampleRanks(), budget)

	rules := make([]string, len(got))
	for i, in := range got {
		rules[i] = in.Rule
	}
	assert.Equal(t, []string{RuleOverspend, RuleMonthlyLimit, RuleOptimization, RuleAchievement}, rules)
	assert.Equal(t, core.SeverityHigh, got[0].Severity)
	assert.Equal(t, core.SeverityLow, got[len(got)-1].Severity)
}

func TestOverspendAlerts(t *testing.T) {
	budget := &core.BudgetConfig{PerCategoryLimits: map[string]core.Money{
		"Transport": core.NewMoney(300000), // 340000 is 13.3% over
		"Shopping":  core.NewMoney(340000), // 360000 is 5.9% over
	}}
	agg := monthlyAggregate(3500000, 2250000)
	got := OverspendAlerts(Input{Aggregate: agg, Ranks: sampleRanks(), Budget: budget}, DefaultConfig())

	require.Len(t, got, 1)
	assert.Equal(t, "Transport", got[0].RelatedCategory)
	assert.Equal(t, int64(40000), got[0].Amount.Minor)
	assert.Equal(t, "13.3", got[0].Percent.String())

	assert.Empty(t, OverspendAlerts(Input{Aggregate: agg, Ranks: sampleRanks()}, DefaultConfig()))
}

func TestOverspendAlerts_ChecksEveryCategory(t *testing.T) {
	budget := &core.BudgetConfig{PerCategoryLimits: map[string]core.Money{"Other": core.NewMoney(1000)}}
	all := append(sampleRanks(), core.CategoryRank{Category: "Other", Amount: core.NewMoney(5000)})
	in := Input{Aggregate: monthlyAggregate(3500000, 2255000), Ranks: sampleRanks()[:2], Categories: all, Budget: budget}

	got := OverspendAlerts(in, DefaultConfig())
	require.Len(t, got, 1)
	assert.Equal(t, "Other", got[0].RelatedCategory)
	assert.Equal(t, "400", got[0].Percent.String())
}

func TestMonthlyRulesIgnoreOtherPeriods(t *testing.T) {
	budget := &core.BudgetConfig{
		MonthlyLimit:      core.NewMoney(1000000),
		SavingsTarget:     core.NewMoney(100000),
		PerCategoryLimits: map[string]core.Money{"Transport": core.NewMoney(100000)},
	}
	today := calendar.NewDate(2024, 1, 15)

	tests := []struct {
		period calendar.PeriodKind
		want   bool
	}{
		{calendar.Daily, false},
		{calendar.Weekly, false},
		{calendar.Monthly, true},
		{calendar.Quarterly, false},
		{calendar.Yearly, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			agg := monthlyAggregate(3500000, 2250000)
			agg.Period = tt.period
			in := Input{Aggregate: agg, Ranks: sampleRanks(), Budget: budget, Today: today}

			for name, rule := range map[string]RuleFunc{
				RuleOverspend:    OverspendAlerts,
				RuleMonthlyLimit: MonthlyLimitAlert,
				RuleAchievement:  SavingsAchievement,
				RuleDailyLimit:   DailySpendingLimit,
			} {
				got := rule(in, DefaultConfig())
				assert.Equal(t, tt.want, len(got) > 0, "%s on %s", name, tt.period)
			}
		})
	}
}

func TestSpendingIncrease(t *testing.T) {
	ranks := []core.CategoryRank{
		{Category: "Transport", Amount: core.NewMoney(420000), PreviousAmount: core.NewMoney(300000), ChangePercent: decimal.NewFromInt(40)},
		{Category: "Food", Amount: core.NewMoney(110000), PreviousAmount: core.NewMoney(100000), ChangePercent: decimal.NewFromInt(10)},
		{Category: "Gifts", Amount: core.NewMoney(50000), ChangePercent: decimal.NewFromInt(100)},
	}
	in := Input{Aggregate: monthlyAggregate(3500000, 580000), Ranks: ranks}

	got := SpendingIncrease(in, DefaultConfig())
	require.Len(t, got, 1)
	assert.Equal(t, "Transport", got[0].RelatedCategory)
	assert.Equal(t, int64(120000), got[0].Amount.Minor)
	assert.Equal(t, core.SeverityMedium, got[0].Severity)
	assert.Equal(t, "You spent 40% more on Transport than in the previous monthly period", got[0].Message)

	low := SpendingIncrease(in, Config{SpendingIncreaseThreshold: decimal.RequireFromString("0.05")}.withDefaults())
	assert.Len(t, low, 2)
}

func TestDailySpendingLimit(t *testing.T) {
	agg := monthlyAggregate(3500000, 2250000)

	got := DailySpendingLimit(Input{Aggregate: agg, Today: calendar.NewDate(2024, 1, 15)}, DefaultConfig())
	require.Len(t, got, 1)
	assert.Equal(t, int64(73529), got[0].Amount.Minor)
	assert.Equal(t, "Your balance is 1250000, consider spending at most 73529 per day for the next 17 days", got[0].Message)

	last := DailySpendingLimit(Input{Aggregate: agg, Today: calendar.NewDate(2024, 1, 31)}, DefaultConfig())
	require.Len(t, last, 1)
	assert.Equal(t, int64(1250000), last[0].Amount.Minor)

	half := DailySpendingLimit(Input{Aggregate: agg, Today: calendar.NewDate(2024, 1, 31)}, Config{DailyLimitShare: decimal.RequireFromString("0.5")}.withDefaults())
	require.Len(t, half, 1)
	assert.Equal(t, int64(625000), half[0].Amount.Minor)

	assert.Empty(t, DailySpendingLimit(Input{Aggregate: agg}, DefaultConfig()), "no day given")
	assert.Empty(t, DailySpendingLimit(Input{Aggregate: agg, Today: calendar.NewDate(2024, 2, 1)}, DefaultConfig()), "outside window")
	assert.Empty(t, DailySpendingLimit(Input{Aggregate: monthlyAggregate(1000, 2000), Today: calendar.NewDate(2024, 1, 15)}, DefaultConfig()), "no balance")
}

func TestMonthlyLimitAlert(t *testing.T) {
	budget := &core.BudgetConfig{MonthlyLimit: core.NewMoney(2000000)}

	got := MonthlyLimitAlert(Input{Aggregate: monthlyAggregate(3500000, 2250000), Budget: budget}, DefaultConfig())
	require.Len(t, got, 1)
	assert.Equal(t, int64(250000), got[0].Amount.Minor)

	weekly := monthlyAggregate(3500000, 2250000)
	weekly.Period = calendar.Weekly
	assert.Empty(t, MonthlyLimitAlert(Input{Aggregate: weekly, Budget: budget}, DefaultConfig()))

	assert.Empty(t, MonthlyLimitAlert(Input{Aggregate: monthlyAggregate(3500000, 1900000), Budget: budget}, DefaultConfig()))
}

func TestSavingsAchievement(t *testing.T) {
	budget := &core.BudgetConfig{SavingsTarget: core.NewMoney(1000000)}

	got := SavingsAchievement(Input{Aggregate: monthlyAggregate(1850000, 1000000), Budget: budget}, DefaultConfig())
	require.Len(t, got, 1)
	assert.Equal(t, "85", got[0].Percent.String())

	exact := SavingsAchievement(Input{Aggregate: monthlyAggregate(1800000, 1000000), Budget: budget}, DefaultConfig())
	assert.Len(t, exact, 1)

	assert.Empty(t, SavingsAchievement(Input{Aggregate: monthlyAggregate(1700000, 1000000), Budget: budget}, DefaultConfig()))
	assert.Empty(t, SavingsAchievement(Input{Aggregate: monthlyAggregate(1850000, 1000000)}, DefaultConfig()))
}

func TestBudgetReviewReminder(t *testing.T) {
	assert.Len(t, BudgetReviewReminder(Input{}, DefaultConfig()), 1)
	assert.Len(t, BudgetReviewReminder(Input{Budget: &core.BudgetConfig{}}, DefaultConfig()), 1)
	assert.Empty(t, BudgetReviewReminder(Input{Budget: &core.BudgetConfig{SavingsTarget: core.NewMoney(1)}}, DefaultConfig()))
}

func TestGenerator_CustomConfig(t *testing.T) {
	g := New(Config{ExpenseRatioThreshold: decimal.RequireFromString("0.7")})
	got := g.Generate(monthlyAggregate(3500000, 2250000), sampleRanks(), nil)
	assert.Equal(t, []core.InsightKind{core.InsightReminder}, kinds(got))
}

func TestGenerate_Deterministic(t *testing.T) {
	budget := &core.BudgetConfig{PerCategoryLimits: map[string]core.Money{
		"Transport": core.NewMoney(100000),
		"Bills":     core.NewMoney(100000),
	}}
	first := Generate(monthlyAggregate(3500000, 2250000), sampleRanks(), budget)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Generate(monthlyAggregate(3500000, 2250000), sampleRanks(), budget))
	}
	assert.Equal(t, "Bills", first[0].RelatedCategory)
}
