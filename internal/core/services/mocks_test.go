package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/kanso-tracker/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/services"
)

func ptr[T any](v T) *T {
	return &v
}

var testNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	clock    *domain.FixedClock
	habits   *repository.InMemoryHabitRepository
	progress *repository.InMemoryProgressRepository
	archive  *repository.InMemoryReportArchive

	habitSvc    *services.HabitService
	progressSvc *services.ProgressService
	reportSvc   *services.ReportService
}

func newFixture() *fixture {
	f := &fixture{
		clock:    domain.NewFixedClock(testNow),
		habits:   repository.NewInMemoryHabitRepository(),
		progress: repository.NewInMemoryProgressRepository(),
		archive:  repository.NewInMemoryReportArchive(),
	}
	f.habitSvc = services.NewHabitService(f.habits, f.progress, f.clock)
	f.progressSvc = services.NewProgressService(f.progress, f.habits, f.clock)
	f.reportSvc = services.NewReportService(f.habits, f.progress, f.archive, f.clock)
	return f
}

type MockHabitRepo struct {
	mock.Mock
}

func (m *MockHabitRepo) Create(ctx context.Context, h *domain.Habit) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockHabitRepo) GetByID(ctx context.Context, id int64) (*domain.Habit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Habit), args.Error(1)
}

func (m *MockHabitRepo) List(ctx context.Context) ([]*domain.Habit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Habit), args.Error(1)
}

func (m *MockHabitRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockProgressRepo struct {
	mock.Mock
}

func (m *MockProgressRepo) Increment(ctx context.Context, habitID int64, date domain.Date, amount, limit float64) (float64, error) {
	args := m.Called(ctx, habitID, date, amount, limit)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockProgressRepo) Get(ctx context.Context, habitID int64, date domain.Date) (float64, bool, error) {
	args := m.Called(ctx, habitID, date)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

func (m *MockProgressRepo) ListRange(ctx context.Context, from, to domain.Date) (map[int64]map[domain.Date]float64, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]map[domain.Date]float64), args.Error(1)
}

func (m *MockProgressRepo) ListByHabit(ctx context.Context, habitID int64, from, to domain.Date) (map[domain.Date]float64, error) {
	args := m.Called(ctx, habitID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Date]float64), args.Error(1)
}

func (m *MockProgressRepo) MaxByHabit(ctx context.Context) (map[int64]float64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]float64), args.Error(1)
}

func (m *MockProgressRepo) DeleteBefore(ctx context.Context, cutoff domain.Date) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) Save(ctx context.Context, batch *domain.WeeklyReportBatch) error {
	return m.Called(ctx, batch).Error(0)
}

func (m *MockArchive) Get(ctx context.Context, date domain.Date) (*domain.WeeklyReportBatch, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeeklyReportBatch), args.Error(1)
}

func (m *MockArchive) Dates(ctx context.Context) ([]domain.Date, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Date), args.Error(1)
}
