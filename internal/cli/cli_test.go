package cli

import (
	"context"
	"io"
	"testing"
	"time"

	"budgetflow/internal/calendar"
	"budgetflow/internal/config"
	"budgetflow/internal/core"
	"budgetflow/internal/log"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataBackend:             "memory",
		DataDirectory:           t.TempDir(),
		Currency:                "UZS",
		Timezone:                "UTC",
		LogLevel:                "info",
		TopCategories:           3,
		TrendEpsilon:            0.05,
		OverspendThreshold:      0.2,
		ExpenseRatioThreshold:   0.5,
		SuggestedCutPercent:     0.1,
		SavingsAchievementRatio: 0.9,
		SnapshotCacheSize:       8,
		SnapshotCacheTTL:        time.Minute,
	}
}

func TestAnalyticsOptions(t *testing.T) {
	opts := AnalyticsOptions(testConfig(t))

	if opts.Ranking.TopN != 3 {
		t.Errorf("TopN = %d, want 3", opts.Ranking.TopN)
	}
	if got := opts.Ranking.TrendEpsilon.String(); got != "0.05" {
		t.Errorf("TrendEpsilon = %s, want 0.05", got)
	}
	if got := opts.Insights.ExpenseRatioThreshold.String(); got != "0.5" {
		t.Errorf("ExpenseRatioThreshold = %s, want 0.5", got)
	}
	if got := opts.Insights.SavingsAchievementRatio.String(); got != "0.9" {
		t.Errorf("SavingsAchievementRatio = %s, want 0.9", got)
	}
	if opts.CacheSize != 8 || opts.CacheTTL != time.Minute {
		t.Errorf("cache settings = %d/%v", opts.CacheSize, opts.CacheTTL)
	}
}

func TestNewClock(t *testing.T) {
	cfg := testConfig(t)
	clock, err := NewClock(cfg)
	if err != nil {
		t.Fatalf("NewClock() error = %v", err)
	}
	if loc := clock.Now().Location(); loc.String() != "UTC" {
		t.Errorf("clock location = %s, want UTC", loc)
	}

	cfg.Timezone = "Mars/Olympus_Mons"
	if _, err := NewClock(cfg); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestNewApp(t *testing.T) {
	cfg := testConfig(t)
	logger := log.New(log.Config{Output: io.Discard})
	ctx := context.Background()

	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	defer app.Close()

	if _, ok := app.Clock.(calendar.SystemClock); !ok {
		t.Errorf("Clock is %T, want SystemClock", app.Clock)
	}

	now := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)
	_, err = app.Transactions.Add(ctx, core.Transaction{
		Kind: core.KindIncome, Amount: core.NewMoney(1000), Category: "Salary",
		OccurredOn: calendar.DateOf(now),
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if app.Revision.Current() != 1 {
		t.Errorf("revision = %d, want 1", app.Revision.Current())
	}

	r, err := app.Analytics.Snapshot(ctx, calendar.Daily, now)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if r.Aggregate.TotalIncome.Minor != 1000 {
		t.Errorf("TotalIncome = %d, want 1000", r.Aggregate.TotalIncome.Minor)
	}

	app.StartCacheCleanup(ctx)
	if n := app.Caches.CleanAll(); n != 0 {
		t.Errorf("CleanAll() = %d, want 0 for fresh snapshots", n)
	}
}

func TestNewAppInvalidBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.DataBackend = "sheets"
	if _, err := NewApp(context.Background(), cfg, log.New(log.Config{Output: io.Discard})); err == nil {
		t.Error("expected error for unsupported backend")
	}
}

func TestSetupLoggerFallsBackToInfo(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogLevel = "chatty"
	logger := SetupLogger(cfg, log.ComponentCLI)
	if logger.Component() != log.ComponentCLI {
		t.Errorf("Component() = %q", logger.Component())
	}
}
