package services

import (
	"context"
	"fmt"
	"time"

	"budgetflow/internal/calendar"
	"budgetflow/internal/log"
	"budgetflow/internal/sheets"
)

// ExportService writes analytics snapshots to a report sink such as a
// spreadsheet.
type ExportService struct {
	analytics *AnalyticsService
	writer    sheets.ReportWriter
	currency  string
	decimals  int
	logger    *log.Logger
}

func NewExportService(analytics *AnalyticsService, writer sheets.ReportWriter, currency string, decimals int, logger *log.Logger) *ExportService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ExportService{
		analytics: analytics,
		writer:    writer,
		currency:  currency,
		decimals:  decimals,
		logger:    logger.WithComponent(log.ComponentSheets),
	}
}

// Export snapshots period at now and hands it to the writer.
func (s *ExportService) Export(ctx context.Context, period calendar.PeriodKind, now time.Time) (string, error) {
	r, err := s.analytics.Snapshot(ctx, period, now)
	if err != nil {
		return "", err
	}
	ref, err := s.writer.WriteReport(ctx, s.toSheets(r))
	if err != nil {
		return "", fmt.Errorf("export %s report: %w", period, err)
	}
	s.logger.InfoContext(ctx, "Report exported",
		log.FieldOperation, log.OpExport,
		log.FieldPeriod, period,
		log.FieldSheetsRange, ref)
	return ref, nil
}

func (s *ExportService) toSheets(r *Report) sheets.Report {
	return sheets.Report{
		GeneratedAt: r.GeneratedAt,
		Currency:    s.currency,
		Decimals:    s.decimals,
		Aggregate:   r.Aggregate,
		Ranks:       r.TopCategories,
		Insights:    r.Insights,
	}
}
