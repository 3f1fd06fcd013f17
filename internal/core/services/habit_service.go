package services

import (
	"context"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-tracker/internal/metrics"
)

type HabitService struct {
	repo     domain.HabitRepository
	progress domain.ProgressRepository
	clock    domain.Clock
}

func NewHabitService(repo domain.HabitRepository, progress domain.ProgressRepository, clock domain.Clock) *HabitService {
	return &HabitService{
		repo:     repo,
		progress: progress,
		clock:    clock,
	}
}

type CreateHabitInput struct {
	Name      string
	DailyGoal float64
}

// ListHabitsFilter narrows List. A nil Completed disables the filter.
type ListHabitsFilter struct {
	Completed *bool
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	habit, err := domain.NewHabit(input.Name, input.DailyGoal, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	metrics.RecordHabitCreated()
	return habit, nil
}

func (s *HabitService) GetByID(ctx context.Context, id int64) (*domain.Habit, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all habits. With Completed set, a habit counts as completed
// when any retained day, not only the current week, reached its goal.
func (s *HabitService) List(ctx context.Context, filter ListHabitsFilter) ([]*domain.Habit, error) {
	habits, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if filter.Completed == nil {
		return habits, nil
	}

	maxes, err := s.progress.MaxByHabit(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*domain.Habit, 0, len(habits))
	for _, h := range habits {
		best, recorded := maxes[h.ID]
		completed := recorded && h.IsMet(best)
		if completed == *filter.Completed {
			filtered = append(filtered, h)
		}
	}

	return filtered, nil
}

// AnyExist reports whether at least one habit is registered.
func (s *HabitService) AnyExist(ctx context.Context) (bool, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
