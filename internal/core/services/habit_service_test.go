package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/services"
)

func TestHabitService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Assigns sequential IDs and trims name", func(t *testing.T) {
		f := newFixture()

		water, err := f.habitSvc.Create(ctx, services.CreateHabitInput{Name: "  Water ", DailyGoal: 8})
		require.NoError(t, err)
		assert.Equal(t, int64(1), water.ID)
		assert.Equal(t, "Water", water.Name)
		assert.Equal(t, testNow, water.CreatedAt)

		read, err := f.habitSvc.Create(ctx, services.CreateHabitInput{Name: "Read", DailyGoal: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), read.ID)

		stored, err := f.habitSvc.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, water, stored)
	})

	t.Run("Success: IDs keep increasing across many creates", func(t *testing.T) {
		f := newFixture()

		var last int64
		for i := 0; i < 25; i++ {
			h, err := f.habitSvc.Create(ctx, services.CreateHabitInput{Name: "h", DailyGoal: 1})
			require.NoError(t, err)
			assert.Greater(t, h.ID, last)
			last = h.ID
		}
	})

	t.Run("Fail: Validation errors are blocked before storage", func(t *testing.T) {
		f := newFixture()

		for _, in := range []services.CreateHabitInput{
			{Name: "", DailyGoal: 5},
			{Name: "x", DailyGoal: 0},
			{Name: "x", DailyGoal: -3},
		} {
			_, err := f.habitSvc.Create(ctx, in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		}

		n, _ := f.habits.Count(ctx)
		assert.Zero(t, n)
	})

	t.Run("Fail: Repository error propagates", func(t *testing.T) {
		repo := new(MockHabitRepo)
		svc := services.NewHabitService(repo, new(MockProgressRepo), domain.NewFixedClock(testNow))

		dbErr := errors.New("db down")
		repo.On("Create", ctx, mock.Anything).Return(dbErr)

		_, err := svc.Create(ctx, services.CreateHabitInput{Name: "Water", DailyGoal: 8})
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestHabitService_GetByID(t *testing.T) {
	f := newFixture()

	_, err := f.habitSvc.GetByID(context.Background(), 9999)
	assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHabitService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	water, _ := f.habitSvc.Create(ctx, services.CreateHabitInput{Name: "Water", DailyGoal: 8})
	read, _ := f.habitSvc.Create(ctx, services.CreateHabitInput{Name: "Read", DailyGoal: 2})
	walk, _ := f.habitSvc.Create(ctx, services.CreateHabitInput{Name: "Walk", DailyGoal: 1})

	// Water met its goal 20 days ago only; Read has partial progress today.
	_, err := f.progressSvc.Record(ctx, services.RecordProgressInput{
		HabitID: water.ID, Amount: ptr(8.0), Date: ptr(testNowDate().AddDays(-20)),
	})
	require.NoError(t, err)
	_, err = f.progressSvc.Record(ctx, services.RecordProgressInput{HabitID: read.ID})
	require.NoError(t, err)

	t.Run("No filter returns everything in ID order", func(t *testing.T) {
		list, err := f.habitSvc.List(ctx, services.ListHabitsFilter{})
		require.NoError(t, err)
		assert.Equal(t, []*domain.Habit{water, read, walk}, list)
	})

	t.Run("Completed uses all-time history", func(t *testing.T) {
		list, err := f.habitSvc.List(ctx, services.ListHabitsFilter{Completed: ptr(true)})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, water.ID, list[0].ID)
	})

	t.Run("Not completed is the complement", func(t *testing.T) {
		list, err := f.habitSvc.List(ctx, services.ListHabitsFilter{Completed: ptr(false)})
		require.NoError(t, err)
		assert.Equal(t, []*domain.Habit{read, walk}, list)
	})

	t.Run("Progress repo error propagates", func(t *testing.T) {
		progress := new(MockProgressRepo)
		svc := services.NewHabitService(f.habits, progress, f.clock)

		dbErr := errors.New("query timeout")
		progress.On("MaxByHabit", ctx).Return(nil, dbErr)

		_, err := svc.List(ctx, services.ListHabitsFilter{Completed: ptr(true)})
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestHabitService_AnyExist(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	ok, err := f.habitSvc.AnyExist(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _ = f.habitSvc.Create(ctx, services.CreateHabitInput{Name: "Water", DailyGoal: 8})

	ok, err = f.habitSvc.AnyExist(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	t.Run("Error propagates", func(t *testing.T) {
		repo := new(MockHabitRepo)
		svc := services.NewHabitService(repo, f.progress, f.clock)
		repo.On("Count", ctx).Return(0, errors.New("boom"))

		_, err := svc.AnyExist(ctx)
		assert.Error(t, err)
	})
}

func testNowDate() domain.Date {
	return domain.NewDate(testNow)
}
