// Package ranking orders expense categories by spend and compares each with
// the previous window of the same kind.
package ranking

import (
	"sort"

	"github.com/shopspring/decimal"

	"budgetflow/internal/aggregate"
	"budgetflow/internal/calendar"
	"budgetflow/internal/core"
)

const DefaultTopN = 5

// DefaultTrendEpsilon is the relative change (1%) below which a category is
// considered stable.
var DefaultTrendEpsilon = decimal.RequireFromString("0.01")

var hundred = decimal.NewFromInt(100)

// Options controls ranking output. TopN 0 means DefaultTopN and a negative
// TopN returns every category. A zero TrendEpsilon means DefaultTrendEpsilon.
type Options struct {
	TopN         int
	TrendEpsilon decimal.Decimal
}

func (o Options) withDefaults() Options {
	if o.TopN == 0 {
		o.TopN = DefaultTopN
	}
	if o.TrendEpsilon.IsZero() {
		o.TrendEpsilon = DefaultTrendEpsilon
	}
	return o
}

// Rank ranks expense categories in the period window containing today.
func Rank(txns []core.Transaction, period calendar.PeriodKind, today calendar.Date, opts Options) ([]core.CategoryRank, error) {
	w, err := calendar.WindowOf(period, today)
	if err != nil {
		return nil, err
	}
	return RankWindow(txns, w, opts), nil
}

// RankWindow ranks expense categories inside w against w.Previous(). Order is
// amount descending, then category name ascending.
func RankWindow(txns []core.Transaction, w calendar.Window, opts Options) []core.CategoryRank {
	opts = opts.withDefaults()

	current, total := sumByCategory(aggregate.InWindow(txns, w, core.KindExpense))
	previous, _ := sumByCategory(aggregate.InWindow(txns, w.Previous(), core.KindExpense))

	ranks := make([]core.CategoryRank, 0, len(current))
	for category, amount := range current {
		prev := previous[category]
		change := changePercent(amount, prev)
		ranks = append(ranks, core.CategoryRank{
			Category:          category,
			Amount:            amount,
			PercentageOfTotal: share(amount, total),
			PreviousAmount:    prev,
			ChangePercent:     change,
			Trend:             trendOf(change, opts.TrendEpsilon),
		})
	}

	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Amount.Minor != ranks[j].Amount.Minor {
			return ranks[i].Amount.Minor > ranks[j].Amount.Minor
		}
		return ranks[i].Category < ranks[j].Category
	})

	return Top(ranks, opts)
}

// Top cuts ranks to the first opts.TopN entries. ranks must already be
// ordered as RankWindow orders them.
func Top(ranks []core.CategoryRank, opts Options) []core.CategoryRank {
	opts = opts.withDefaults()
	if opts.TopN > 0 && len(ranks) > opts.TopN {
		return ranks[:opts.TopN]
	}
	return ranks
}

func sumByCategory(txns []core.Transaction) (map[string]core.Money, core.Money) {
	sums := make(map[string]core.Money)
	var total core.Money
	for _, tx := range txns {
		sums[tx.Category] = sums[tx.Category].Add(tx.Amount)
		total = total.Add(tx.Amount)
	}
	return sums, total
}

func share(amount, total core.Money) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return amount.Decimal().Div(total.Decimal())
}

// changePercent is the change from prev to cur in percent. A category with no
// previous spend counts as a 100% increase.
func changePercent(cur, prev core.Money) decimal.Decimal {
	if !prev.IsPositive() {
		if cur.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return cur.Sub(prev).Decimal().Div(prev.Decimal()).Mul(hundred)
}

func trendOf(change, epsilon decimal.Decimal) core.Trend {
	limit := epsilon.Mul(hundred)
	switch {
	case change.GreaterThan(limit):
		return core.TrendUp
	case change.LessThan(limit.Neg()):
		return core.TrendDown
	default:
		return core.TrendStable
	}
}
