package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"budgetflow/internal/aggregate"
	"budgetflow/internal/cache"
	"budgetflow/internal/calendar"
	"budgetflow/internal/core"
	"budgetflow/internal/insight"
	"budgetflow/internal/log"
	"budgetflow/internal/ranking"
	"budgetflow/internal/schedule"
	"budgetflow/internal/store"
)

// Report is the analytics snapshot of one period as seen on one day.
// Reports handed out by AnalyticsService are shared with the cache and must
// be treated as read-only.
type Report struct {
	Aggregate     core.PeriodAggregate `json:"aggregate"`
	TopCategories []core.CategoryRank  `json:"top_categories"`
	Insights      []core.Insight       `json:"insights"`
	Planned       []PlannedStatus      `json:"planned"`
	GeneratedAt   time.Time            `json:"generated_at"`
}

// PlannedStatus pairs a planned item with its derived schedule. Problem is
// set instead of Schedule when the item's schedule cannot be computed.
type PlannedStatus struct {
	Item     core.PlannedItem    `json:"item"`
	Schedule core.ScheduleResult `json:"schedule"`
	Problem  string              `json:"problem,omitempty"`
}

// AnalyticsOptions configures AnalyticsService.
type AnalyticsOptions struct {
	Ranking   ranking.Options
	Insights  insight.Config
	CacheSize int
	CacheTTL  time.Duration
}

// AnalyticsService builds period snapshots from the store.
type AnalyticsService struct {
	txns     store.TransactionReader
	planned  store.PlannedReader
	budget   store.BudgetStore
	rev      *Revision
	ranking  ranking.Options
	insights *insight.Generator
	cache    *cache.LRUCache[*Report]
	logger   *log.Logger
}

func NewAnalyticsService(st store.Store, rev *Revision, opts AnalyticsOptions, logger *log.Logger) *AnalyticsService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if rev == nil {
		rev = &Revision{}
	}
	size := opts.CacheSize
	if size <= 0 {
		size = 64
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AnalyticsService{
		txns:     st,
		planned:  st,
		budget:   st,
		rev:      rev,
		ranking:  opts.Ranking,
		insights: insight.New(opts.Insights),
		cache:    cache.NewLRUCache[*Report](size, ttl),
		logger:   logger.WithComponent(log.ComponentAnalytics),
	}
}

// Cache exposes the snapshot cache so it can be registered with a cleanup manager.
func (s *AnalyticsService) Cache() *cache.LRUCache[*Report] {
	return s.cache
}

// Snapshot returns the report of the period window containing now.
func (s *AnalyticsService) Snapshot(ctx context.Context, period calendar.PeriodKind, now time.Time) (*Report, error) {
	today := calendar.DateOf(now)
	w, err := calendar.WindowOf(period, today)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s|%s|%d", period, today, s.rev.Current())
	if r, ok := s.cache.Get(key); ok {
		s.logger.DebugContext(ctx, "Snapshot served from cache",
			log.FieldPeriod, period, log.FieldCacheHit, true)
		return r, nil
	}

	start := time.Now()
	r, err := s.build(ctx, w, today, now)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, r)

	s.logger.InfoContext(ctx, "Snapshot computed",
		log.NewFields().
			WithOperation(log.OpSnapshot).
			WithWindow(string(period), w.Start.String(), w.End.String()).
			ToSlice()...)
	s.logger.DebugContext(ctx, "Snapshot stats",
		log.FieldInsightCount, len(r.Insights),
		log.FieldDuration, time.Since(start).Milliseconds(),
		log.FieldCacheHit, false)
	return r, nil
}

func (s *AnalyticsService) build(ctx context.Context, w calendar.Window, today calendar.Date, now time.Time) (*Report, error) {
	// previous window is needed for trends
	txns, err := s.txns.ListTransactions(ctx, w.Previous().Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	budget, err := s.budget.GetBudget(ctx)
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	planned, err := plannedStatuses(ctx, s.planned, today, s.logger)
	if err != nil {
		return nil, err
	}

	agg, err := aggregate.AggregateWindow(txns, w)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", w, err)
	}
	all := ranking.RankWindow(txns, w, ranking.Options{TopN: -1, TrendEpsilon: s.ranking.TrendEpsilon})
	ranks := ranking.Top(all, s.ranking)

	return &Report{
		Aggregate:     agg,
		TopCategories: ranks,
		Insights: s.insights.Evaluate(insight.Input{
			Aggregate:  agg,
			Ranks:      ranks,
			Categories: all,
			Budget:     budget,
			Today:      today,
		}),
		Planned:     planned,
		GeneratedAt: now,
	}, nil
}

// Dashboard computes the snapshots of every period concurrently. The result
// follows calendar.AllPeriods order.
func (s *AnalyticsService) Dashboard(ctx context.Context, now time.Time) ([]*Report, error) {
	periods := calendar.AllPeriods()
	out := make([]*Report, len(periods))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range periods {
		g.Go(func() error {
			r, err := s.Snapshot(gctx, p, now)
			if err != nil {
				return fmt.Errorf("%s snapshot: %w", p, err)
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// plannedStatuses computes the schedule of every planned item, ordered by
// next occurrence then title. Items with a broken schedule are kept with
// Problem set and sort last.
func plannedStatuses(ctx context.Context, r store.PlannedReader, today calendar.Date, logger *log.Logger) ([]PlannedStatus, error) {
	items, err := r.ListPlanned(ctx)
	if err != nil {
		return nil, fmt.Errorf("list planned items: %w", err)
	}

	out := make([]PlannedStatus, 0, len(items))
	for _, it := range items {
		res, err := schedule.Compute(it, today)
		if err != nil {
			var se *core.InvalidScheduleError
			if !errors.As(err, &se) {
				return nil, err
			}
			logger.WarnContext(ctx, "Skipping schedule of planned item",
				log.FieldPlannedItem, it.ID,
				log.FieldErrorType, log.ErrorTypeSchedule,
				log.FieldError, err)
			out = append(out, PlannedStatus{Item: it, Problem: se.Reason})
			continue
		}
		out = append(out, PlannedStatus{Item: it, Schedule: res})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.Problem == "") != (b.Problem == "") {
			return a.Problem == ""
		}
		if c := a.Schedule.NextOccurrence.Compare(b.Schedule.NextOccurrence); c != 0 {
			return c < 0
		}
		return a.Item.Title < b.Item.Title
	})
	return out, nil
}
