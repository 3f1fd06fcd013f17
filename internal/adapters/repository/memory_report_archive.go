package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
)

var _ domain.ReportArchive = (*InMemoryReportArchive)(nil)

type InMemoryReportArchive struct {
	logs map[domain.Date]*domain.WeeklyReportBatch

	mu sync.RWMutex
}

func NewInMemoryReportArchive() *InMemoryReportArchive {
	return &InMemoryReportArchive{
		logs: make(map[domain.Date]*domain.WeeklyReportBatch),
	}
}

func (a *InMemoryReportArchive) Save(ctx context.Context, batch *domain.WeeklyReportBatch) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.logs[batch.ReportDate] = batch
	return nil
}

func (a *InMemoryReportArchive) Get(ctx context.Context, date domain.Date) (*domain.WeeklyReportBatch, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	batch, ok := a.logs[date]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return batch, nil
}

func (a *InMemoryReportArchive) Dates(ctx context.Context) ([]domain.Date, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	dates := make([]domain.Date, 0, len(a.logs))
	for d := range a.logs {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i] < dates[j]
	})
	return dates, nil
}
