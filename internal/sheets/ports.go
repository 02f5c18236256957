package sheets

import (
	"context"
	"time"

	"budgetflow/internal/core"
)

// Report is one analytics snapshot ready for export.
type Report struct {
	GeneratedAt time.Time
	Currency    string
	Decimals    int
	Aggregate   core.PeriodAggregate
	Ranks       []core.CategoryRank
	Insights    []core.Insight
}

// Ports for outbound adapters.
type (
	ReportWriter interface {
		// WriteReport appends the report and returns a reference to the written range.
		WriteReport(ctx context.Context, r Report) (ref string, err error)
	}
)
