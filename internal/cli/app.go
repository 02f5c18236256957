package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"budgetflow/internal/backend"
	"budgetflow/internal/cache"
	"budgetflow/internal/calendar"
	"budgetflow/internal/config"
	"budgetflow/internal/insight"
	"budgetflow/internal/log"
	"budgetflow/internal/ranking"
	"budgetflow/internal/services"
	"budgetflow/internal/store"
)

// App holds the services wired from one configuration.
type App struct {
	Config       *config.Config
	Logger       *log.Logger
	Clock        calendar.Clock
	Store        store.Store
	Revision     *services.Revision
	Analytics    *services.AnalyticsService
	Planned      *services.PlannedService
	Transactions *services.TransactionService
	Caches       *cache.Manager

	backend *backend.BackendResult
}

// NewApp opens the configured backend and builds the services on top of it.
func NewApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	clock, err := NewClock(cfg)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	rev := &services.Revision{}
	analytics := services.NewAnalyticsService(res.Store, rev, AnalyticsOptions(cfg), logger)

	caches := cache.NewManager(logger.WithComponent(log.ComponentCache).Slog())
	caches.Register(analytics.Cache())

	return &App{
		Config:       cfg,
		Logger:       logger,
		Clock:        clock,
		Store:        res.Store,
		Revision:     rev,
		Analytics:    analytics,
		Planned:      services.NewPlannedService(res.Store, rev, logger),
		Transactions: services.NewTransactionService(res.Store, rev, logger),
		Caches:       caches,
		backend:      res,
	}, nil
}

// StartCacheCleanup evicts expired snapshots in the background until ctx ends.
func (a *App) StartCacheCleanup(ctx context.Context) {
	interval := a.Config.SnapshotCacheTTL
	if interval <= 0 {
		interval = time.Minute
	}
	a.Caches.StartCleanup(ctx, interval)
}

// Close stops background work and releases the backend.
func (a *App) Close() error {
	a.Caches.Stop()
	return a.backend.Close()
}

// AnalyticsOptions maps configuration onto analytics settings.
func AnalyticsOptions(cfg *config.Config) services.AnalyticsOptions {
	return services.AnalyticsOptions{
		Ranking: ranking.Options{
			TopN:         cfg.TopCategories,
			TrendEpsilon: decimal.NewFromFloat(cfg.TrendEpsilon),
		},
		Insights: insight.Config{
			OverspendThreshold:        decimal.NewFromFloat(cfg.OverspendThreshold),
			ExpenseRatioThreshold:     decimal.NewFromFloat(cfg.ExpenseRatioThreshold),
			SuggestedCutPercent:       decimal.NewFromFloat(cfg.SuggestedCutPercent),
			SavingsAchievementRatio:   decimal.NewFromFloat(cfg.SavingsAchievementRatio),
			SpendingIncreaseThreshold: decimal.NewFromFloat(cfg.SpendingIncrease),
			DailyLimitShare:           decimal.NewFromFloat(cfg.DailyLimitShare),
		},
		CacheSize: cfg.SnapshotCacheSize,
		CacheTTL:  cfg.SnapshotCacheTTL,
	}
}
