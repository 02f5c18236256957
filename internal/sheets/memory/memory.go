package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"budgetflow/internal/sheets"
)

// ReportLog keeps exported reports in memory. It backs the export command
// when no spreadsheet is configured and is handy in tests.
type ReportLog struct {
	mu      sync.Mutex
	reports []sheets.Report
}

var _ sheets.ReportWriter = (*ReportLog)(nil)

func New() *ReportLog { return &ReportLog{} }

// WriteReport stores the report and returns a synthetic reference.
func (l *ReportLog) WriteReport(_ context.Context, r sheets.Report) (string, error) {
	if !r.Aggregate.Period.Valid() {
		return "", errors.New("report has no period")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reports = append(l.reports, r)
	return fmt.Sprintf("mem:%d", len(l.reports)), nil
}

// Reports returns a copy of everything written so far.
func (l *ReportLog) Reports() []sheets.Report {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]sheets.Report, len(l.reports))
	copy(out, l.reports)
	return out
}
