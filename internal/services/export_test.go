package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetflow/internal/calendar"
	sheetsmem "budgetflow/internal/sheets/memory"
)

func TestExport(t *testing.T) {
	analytics := newAnalytics(newTestStore(), &Revision{})
	sink := sheetsmem.New()
	svc := NewExportService(analytics, sink, "UZS", 0, quietLogger())

	ref, err := svc.Export(context.Background(), calendar.Monthly, testNow)
	require.NoError(t, err)
	assert.Equal(t, "mem:1", ref)

	reports := sink.Reports()
	require.Len(t, reports, 1)
	r := reports[0]
	assert.Equal(t, "UZS", r.Currency)
	assert.Equal(t, calendar.Monthly, r.Aggregate.Period)
	assert.Equal(t, int64(3500000), r.Aggregate.TotalIncome.Minor)
	require.Len(t, r.Ranks, 1)
	assert.Len(t, r.Insights, 4)
	assert.Equal(t, testNow, r.GeneratedAt)
}

func TestExportInvalidPeriod(t *testing.T) {
	svc := NewExportService(newAnalytics(newTestStore(), &Revision{}), sheetsmem.New(), "UZS", 0, quietLogger())
	_, err := svc.Export(context.Background(), "hourly", testNow)
	assert.Error(t, err)
}
