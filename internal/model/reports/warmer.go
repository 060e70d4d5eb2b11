package reports

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/earnings-tracker/internal/entity/record"
	"max.ks1230/earnings-tracker/internal/entity/summary"
	"max.ks1230/earnings-tracker/internal/logger"
)

type analyticsService interface {
	Invalidate(ctx context.Context, userID int64) error
	Overview(ctx context.Context, userID int64, start, end *time.Time) (summary.Overview, error)
}

type config interface {
	WarmCache() bool
}

// Warmer reacts to record changes: it drops the user's cached analytics and,
// when enabled, precomputes the default overview.
type Warmer struct {
	analytics analyticsService
	warm      bool
}

func NewWarmer(config config, analytics analyticsService) *Warmer {
	return &Warmer{
		analytics: analytics,
		warm:      config.WarmCache(),
	}
}

func (w *Warmer) HandleChange(ctx context.Context, event record.ChangeEvent) (err error) {
	logger.Info("HandleChange - start", zap.Int64("userID", event.UserID))
	defer logger.Info("HandleChange - end", zap.Int64("userID", event.UserID))

	span, ctx := opentracing.StartSpanFromContext(ctx, "handleChange")
	defer func() {
		if err != nil {
			ext.Error.Set(span, true)
		}
		span.Finish()
	}()

	if err = w.analytics.Invalidate(ctx, event.UserID); err != nil {
		return errors.Wrap(err, "invalidate")
	}
	if !w.warm {
		return nil
	}
	_, err = w.analytics.Overview(ctx, event.UserID, nil, nil)
	return errors.Wrap(err, "warm overview")
}
