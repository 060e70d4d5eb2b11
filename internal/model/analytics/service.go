package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"max.ks1230/earnings-tracker/internal/entity/record"
	"max.ks1230/earnings-tracker/internal/entity/summary"
	"max.ks1230/earnings-tracker/internal/logger"
)

const dateKeyLayout = "2006-01-02"

type recordsStorage interface {
	ListEarnings(ctx context.Context, userID int64, from, to *time.Time) ([]record.Earning, error)
	ListExpenses(ctx context.Context, userID int64, from, to *time.Time) ([]record.Expense, error)
}

type reportCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Service serves analytics for one user at a time: it fetches a record snapshot
// wide enough for the requested views and hands it to the Aggregator.
type Service struct {
	storage    recordsStorage
	cache      reportCache
	aggregator *Aggregator
}

func NewService(storage recordsStorage, cache reportCache, aggregator *Aggregator) *Service {
	return &Service{
		storage:    storage,
		cache:      cache,
		aggregator: aggregator,
	}
}

func (s *Service) Overview(ctx context.Context, userID int64, start, end *time.Time) (res summary.Overview, err error) {
	logger.Info("Overview - start", zap.Int64("userID", userID))
	defer logger.Info("Overview - end", zap.Int64("userID", userID))

	w := s.aggregator.OverviewWindow(start, end)
	key := fmt.Sprintf("overview:%s:%s:%s", dayKey(w.From), dayKey(w.To), dayKey(s.aggregator.today()))

	err = s.observe(ctx, "overview", userID, key, &res, func(ctx context.Context) error {
		earnings, expenses, err := s.fetch(ctx, userID, s.aggregator.FullOverviewWindow(start, end))
		if err != nil {
			return err
		}
		res = s.aggregator.ComputeOverview(earnings, expenses, &w.From, &w.To)
		return nil
	})
	return res, errors.Wrap(err, "overview")
}

func (s *Service) DailySummary(ctx context.Context, userID int64, start, end time.Time) (res []summary.Daily, err error) {
	logger.Info("DailySummary - start", zap.Int64("userID", userID))
	defer logger.Info("DailySummary - end", zap.Int64("userID", userID))

	start, end = record.Day(start), record.Day(end)
	if start.After(end) {
		return []summary.Daily{}, nil
	}
	key := fmt.Sprintf("daily:%s:%s", dayKey(start), dayKey(end))

	err = s.observe(ctx, "daily", userID, key, &res, func(ctx context.Context) error {
		earnings, expenses, err := s.fetch(ctx, userID, Window{From: start, To: end})
		if err != nil {
			return err
		}
		res = s.aggregator.ComputeDailySummary(earnings, expenses, start, end)
		return nil
	})
	return res, errors.Wrap(err, "daily summary")
}

func (s *Service) WeeklyTrends(ctx context.Context, userID int64, weeks int) (res []summary.TrendPoint, err error) {
	logger.Info("WeeklyTrends - start", zap.Int64("userID", userID), zap.Int("weeks", weeks))
	defer logger.Info("WeeklyTrends - end", zap.Int64("userID", userID))

	if weeks <= 0 {
		return []summary.TrendPoint{}, nil
	}
	key := fmt.Sprintf("weekly:%d:%s", weeks, dayKey(s.aggregator.today()))

	err = s.observe(ctx, "weekly", userID, key, &res, func(ctx context.Context) error {
		earnings, expenses, err := s.fetch(ctx, userID, s.aggregator.WeeklyWindow(weeks))
		if err != nil {
			return err
		}
		res = s.aggregator.ComputeWeeklyTrends(earnings, expenses, weeks)
		return nil
	})
	return res, errors.Wrap(err, "weekly trends")
}

func (s *Service) MonthlyTrends(ctx context.Context, userID int64, months int) (res []summary.TrendPoint, err error) {
	logger.Info("MonthlyTrends - start", zap.Int64("userID", userID), zap.Int("months", months))
	defer logger.Info("MonthlyTrends - end", zap.Int64("userID", userID))

	if months <= 0 {
		return []summary.TrendPoint{}, nil
	}
	key := fmt.Sprintf("monthly:%d:%s", months, dayKey(s.aggregator.today()))

	err = s.observe(ctx, "monthly", userID, key, &res, func(ctx context.Context) error {
		earnings, expenses, err := s.fetch(ctx, userID, s.aggregator.MonthlyWindow(months))
		if err != nil {
			return err
		}
		res = s.aggregator.ComputeMonthlyTrends(earnings, expenses, months)
		return nil
	})
	return res, errors.Wrap(err, "monthly trends")
}

// Invalidate drops every cached result of the user by moving it to a new generation.
func (s *Service) Invalidate(ctx context.Context, userID int64) error {
	gen := strconv.FormatInt(time.Now().UnixNano(), 10)
	err := s.cache.Set(ctx, generationKey(userID), []byte(gen))
	if err != nil {
		logger.Error("failed to invalidate analytics cache", zap.Int64("userID", userID), zap.Error(err))
	}
	return errors.Wrap(err, "invalidate")
}

// observe serves dst from cache when possible, otherwise runs compute inside a
// span, measures it and stores the result.
func (s *Service) observe(ctx context.Context, op string, userID int64, key string, dst interface{}, compute func(ctx context.Context) error) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "analytics."+op)
	defer span.Finish()
	span.SetTag("userID", userID)

	fullKey := s.cacheKey(ctx, userID, key)
	if raw, err := s.cache.Get(ctx, fullKey); err == nil {
		if err = json.Unmarshal(raw, dst); err == nil {
			span.SetTag("cache", "hit")
			observeCache(op, true)
			return nil
		}
		logger.Warn("broken cache entry", zap.String("key", fullKey), zap.Error(err))
	}
	span.SetTag("cache", "miss")
	observeCache(op, false)

	start := time.Now()
	err := compute(ctx)
	observeCompute(op, time.Since(start), err != nil)
	if err != nil {
		ext.Error.Set(span, true)
		return err
	}

	raw, err := json.Marshal(dst)
	if err == nil {
		err = s.cache.Set(ctx, fullKey, raw)
	}
	if err != nil {
		logger.Error("failed to cache analytics", zap.String("key", fullKey), zap.Error(err))
	}
	return nil
}

func (s *Service) cacheKey(ctx context.Context, userID int64, key string) string {
	gen := "0"
	if raw, err := s.cache.Get(ctx, generationKey(userID)); err == nil {
		gen = string(raw)
	}
	return fmt.Sprintf("analytics:%d:%s:%s", userID, gen, key)
}

func generationKey(userID int64) string {
	return "analytics:" + strconv.FormatInt(userID, 10) + ":gen"
}

// fetch loads earnings and expenses of the window concurrently.
func (s *Service) fetch(ctx context.Context, userID int64, w Window) ([]record.Earning, []record.Expense, error) {
	var (
		earnings []record.Earning
		expenses []record.Expense
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		earnings, err = s.storage.ListEarnings(gctx, userID, &w.From, &w.To)
		return errors.Wrap(err, "get earnings")
	})
	g.Go(func() error {
		var err error
		expenses, err = s.storage.ListExpenses(gctx, userID, &w.From, &w.To)
		return errors.Wrap(err, "get expenses")
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return earnings, expenses, nil
}

func dayKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}
