package workers

import (
	"context"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
)

type Purger interface {
	PurgeOlderThan(ctx context.Context, cutoff domain.Date) (int64, error)
}

// RetentionWorker drops progress entries older than the retention window.
type RetentionWorker struct {
	purger Purger
	clock  domain.Clock
	days   int
	logger *zap.Logger
}

func NewRetentionWorker(purger Purger, clock domain.Clock, days int, logger *zap.Logger) *RetentionWorker {
	if days <= 0 {
		days = domain.DefaultRetentionDays
	}
	return &RetentionWorker{
		purger: purger,
		clock:  clock,
		days:   days,
		logger: logger,
	}
}

func (w *RetentionWorker) Name() string {
	return "progress_retention"
}

func (w *RetentionWorker) Run(ctx context.Context) error {
	cutoff := domain.RetentionCutoff(w.clock.Today(), w.days)

	removed, err := w.purger.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	w.logger.Info("expired progress purged",
		zap.String("cutoff", cutoff.String()),
		zap.Int64("removed", removed),
	)
	return nil
}
