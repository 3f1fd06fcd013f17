package repository

import (
	"context"
	"math"
	"sync"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
)

var _ domain.ProgressRepository = (*InMemoryProgressRepository)(nil)

type InMemoryProgressRepository struct {
	store map[int64]map[domain.Date]float64

	mu sync.RWMutex
}

func NewInMemoryProgressRepository() *InMemoryProgressRepository {
	return &InMemoryProgressRepository{
		store: make(map[int64]map[domain.Date]float64),
	}
}

func (r *InMemoryProgressRepository) Increment(ctx context.Context, habitID int64, date domain.Date, amount, limit float64) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	days, ok := r.store[habitID]
	if !ok {
		days = make(map[domain.Date]float64)
		r.store[habitID] = days
	}

	value := math.Max(0, math.Min(days[date]+amount, limit))
	days[date] = value
	return value, nil
}

func (r *InMemoryProgressRepository) Get(ctx context.Context, habitID int64, date domain.Date) (float64, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.store[habitID][date]
	return value, ok, nil
}

func (r *InMemoryProgressRepository) ListRange(ctx context.Context, from, to domain.Date) (map[int64]map[domain.Date]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[int64]map[domain.Date]float64)
	for habitID, days := range r.store {
		if inRange := collectRange(days, from, to); len(inRange) > 0 {
			result[habitID] = inRange
		}
	}
	return result, nil
}

func (r *InMemoryProgressRepository) ListByHabit(ctx context.Context, habitID int64, from, to domain.Date) (map[domain.Date]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return collectRange(r.store[habitID], from, to), nil
}

func (r *InMemoryProgressRepository) MaxByHabit(ctx context.Context) (map[int64]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[int64]float64)
	for habitID, days := range r.store {
		for _, v := range days {
			if cur, ok := result[habitID]; !ok || v > cur {
				result[habitID] = v
			}
		}
	}
	return result, nil
}

func (r *InMemoryProgressRepository) DeleteBefore(ctx context.Context, cutoff domain.Date) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for habitID, days := range r.store {
		for date := range days {
			if date.Before(cutoff) {
				delete(days, date)
				removed++
			}
		}
		if len(days) == 0 {
			delete(r.store, habitID)
		}
	}
	return removed, nil
}

func collectRange(days map[domain.Date]float64, from, to domain.Date) map[domain.Date]float64 {
	out := make(map[domain.Date]float64)
	for date, v := range days {
		if !date.Before(from) && !date.After(to) {
			out[date] = v
		}
	}
	return out
}
