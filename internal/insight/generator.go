// Package insight turns aggregates and category rankings into rule-based
// alerts, optimizations, achievements and reminders.
package insight

import (
	"sort"

	"github.com/shopspring/decimal"

	"budgetflow/internal/core"
)

// Config holds the rule thresholds. All values are fractions (0.6 = 60%).
type Config struct {
	OverspendThreshold        decimal.Decimal
	ExpenseRatioThreshold     decimal.Decimal
	SuggestedCutPercent       decimal.Decimal
	SavingsAchievementRatio   decimal.Decimal
	SpendingIncreaseThreshold decimal.Decimal
	DailyLimitShare           decimal.Decimal
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		OverspendThreshold:        decimal.RequireFromString("0.10"),
		ExpenseRatioThreshold:     decimal.RequireFromString("0.6"),
		SuggestedCutPercent:       decimal.RequireFromString("0.15"),
		SavingsAchievementRatio:   decimal.RequireFromString("0.8"),
		SpendingIncreaseThreshold: decimal.RequireFromString("0.25"),
		DailyLimitShare:           decimal.NewFromInt(1),
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.OverspendThreshold.IsZero() {
		c.OverspendThreshold = def.OverspendThreshold
	}
	if c.ExpenseRatioThreshold.IsZero() {
		c.ExpenseRatioThreshold = def.ExpenseRatioThreshold
	}
	if c.SuggestedCutPercent.IsZero() {
		c.SuggestedCutPercent = def.SuggestedCutPercent
	}
	if c.SavingsAchievementRatio.IsZero() {
		c.SavingsAchievementRatio = def.SavingsAchievementRatio
	}
	if c.SpendingIncreaseThreshold.IsZero() {
		c.SpendingIncreaseThreshold = def.SpendingIncreaseThreshold
	}
	if c.DailyLimitShare.IsZero() {
		c.DailyLimitShare = def.DailyLimitShare
	}
	return c
}

// Generator evaluates a fixed rule list. It holds no mutable state and is
// safe for concurrent use.
type Generator struct {
	cfg   Config
	rules []Rule
}

// New builds a generator over DefaultRules. Zero thresholds fall back to
// DefaultConfig.
func New(cfg Config) *Generator {
	return NewWithRules(cfg, DefaultRules())
}

// NewWithRules builds a generator over a custom rule list. The list order is
// the tie-break order for insights of equal severity.
func NewWithRules(cfg Config, rules []Rule) *Generator {
	return &Generator{cfg: cfg.withDefaults(), rules: rules}
}

// Generate runs every rule over the aggregate and its top categories.
func (g *Generator) Generate(agg core.PeriodAggregate, ranks []core.CategoryRank, budget *core.BudgetConfig) []core.Insight {
	return g.Evaluate(Input{Aggregate: agg, Ranks: ranks, Budget: budget})
}

// Evaluate runs every rule and returns the matches, most severe first.
func (g *Generator) Evaluate(in Input) []core.Insight {
	var out []core.Insight
	for _, r := range g.rules {
		out = append(out, r.Eval(in, g.cfg)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity > out[j].Severity
	})
	return out
}

// Generate runs the default rules with DefaultConfig.
func Generate(agg core.PeriodAggregate, ranks []core.CategoryRank, budget *core.BudgetConfig) []core.Insight {
	return New(DefaultConfig()).Generate(agg, ranks, budget)
}
