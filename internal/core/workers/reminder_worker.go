package workers

import (
	"context"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-tracker/internal/metrics"
)

type HabitChecker interface {
	AnyExist(ctx context.Context) (bool, error)
}

// Notifier delivers an event to every listener and reports how many got it.
type Notifier interface {
	Broadcast(ctx context.Context, event domain.ReminderEvent) (int, error)
}

// ReminderWorker emits the daily reminder batch when there is something to
// remind about.
type ReminderWorker struct {
	habits   HabitChecker
	notifier Notifier
	clock    domain.Clock
	logger   *zap.Logger
}

func NewReminderWorker(habits HabitChecker, notifier Notifier, clock domain.Clock, logger *zap.Logger) *ReminderWorker {
	return &ReminderWorker{
		habits:   habits,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

func (w *ReminderWorker) Name() string {
	return "daily_reminder"
}

func (w *ReminderWorker) Run(ctx context.Context) error {
	exist, err := w.habits.AnyExist(ctx)
	if err != nil {
		return err
	}
	if !exist {
		w.logger.Debug("no habits registered, reminder skipped")
		return nil
	}

	delivered, err := w.notifier.Broadcast(ctx, domain.NewReminderEvent(w.clock.Now()))
	metrics.RecordReminderDeliveries(delivered)
	if err != nil {
		return err
	}

	w.logger.Info("daily reminder sent", zap.Int("clients", delivered))
	return nil
}
