package services

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-tracker/internal/metrics"
)

type ProgressService struct {
	repo      domain.ProgressRepository
	habitRepo domain.HabitRepository
	clock     domain.Clock
}

func NewProgressService(repo domain.ProgressRepository, habitRepo domain.HabitRepository, clock domain.Clock) *ProgressService {
	return &ProgressService{
		repo:      repo,
		habitRepo: habitRepo,
		clock:     clock,
	}
}

type RecordProgressInput struct {
	HabitID int64
	// Amount defaults to one unit when nil or zero.
	Amount *float64
	// Date defaults to today.
	Date *domain.Date
}

// Record adds the amount to the habit's progress for the day. The stored
// value never exceeds the daily goal: excess is dropped, not rejected.
func (s *ProgressService) Record(ctx context.Context, input RecordProgressInput) (*domain.ProgressResult, error) {
	amount, err := domain.NormalizeIncrement(input.Amount)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	date := today
	if input.Date != nil {
		date = *input.Date
		if date.After(today) {
			return nil, domain.ErrFutureDate
		}
	}

	habit, err := s.habitRepo.GetByID(ctx, input.HabitID)
	if err != nil {
		return nil, err
	}

	value, err := s.repo.Increment(ctx, habit.ID, date, amount, habit.DailyGoal)
	if err != nil {
		return nil, err
	}

	goalMet := habit.IsMet(value)
	metrics.RecordProgress(goalMet)

	return &domain.ProgressResult{
		HabitID:  habit.ID,
		Date:     date,
		Progress: value,
		GoalMet:  goalMet,
	}, nil
}

// Get returns the progress for a day, zero when nothing was recorded.
func (s *ProgressService) Get(ctx context.Context, habitID int64, date domain.Date) (float64, error) {
	if _, err := s.habitRepo.GetByID(ctx, habitID); err != nil {
		return 0, err
	}

	value, _, err := s.repo.Get(ctx, habitID, date)
	if err != nil {
		return 0, err
	}
	return value, nil
}

// History returns the recorded days of a habit in [from, to].
func (s *ProgressService) History(ctx context.Context, habitID int64, from, to domain.Date) (map[domain.Date]float64, error) {
	if from.After(to) {
		return nil, domain.ErrInvalidRange
	}

	if _, err := s.habitRepo.GetByID(ctx, habitID); err != nil {
		return nil, err
	}

	return s.repo.ListByHabit(ctx, habitID, from, to)
}

// PurgeOlderThan deletes every entry dated strictly before cutoff, for all habits.
func (s *ProgressService) PurgeOlderThan(ctx context.Context, cutoff domain.Date) (int64, error) {
	removed, err := s.repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge before %s: %w", cutoff, err)
	}

	metrics.RecordPurge(removed)
	return removed, nil
}
