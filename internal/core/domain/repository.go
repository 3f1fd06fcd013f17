package domain

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

var (
	ErrHabitNotFound  = fmt.Errorf("%w: habit not found", ErrNotFound)
	ErrReportNotFound = fmt.Errorf("%w: no archived report for that date", ErrNotFound)
)

type HabitRepository interface {
	// Create assigns the next sequential ID to the habit and stores it.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves a habit by its identifier.
	GetByID(ctx context.Context, id int64) (*Habit, error)

	// List returns every habit ordered by ID.
	List(ctx context.Context) ([]*Habit, error)

	// Count returns the number of registered habits.
	Count(ctx context.Context) (int, error)
}

type ProgressRepository interface {
	// Increment adds amount to the (habit, date) entry and clamps the result
	// to limit. The read-add-clamp must be atomic. Returns the stored value.
	Increment(ctx context.Context, habitID int64, date Date, amount, limit float64) (float64, error)

	// Get returns the stored value and whether an entry exists.
	Get(ctx context.Context, habitID int64, date Date) (float64, bool, error)

	// ListRange returns the recorded entries of every habit with from <= date <= to,
	// keyed by habit ID then date.
	ListRange(ctx context.Context, from, to Date) (map[int64]map[Date]float64, error)

	// ListByHabit returns the recorded entries of one habit with from <= date <= to.
	ListByHabit(ctx context.Context, habitID int64, from, to Date) (map[Date]float64, error)

	// MaxByHabit returns the highest value ever recorded per habit across the
	// whole retained history. Habits without entries are absent.
	MaxByHabit(ctx context.Context) (map[int64]float64, error)

	// DeleteBefore removes every entry with date < cutoff and reports how many.
	DeleteBefore(ctx context.Context, cutoff Date) (int64, error)
}

type ReportArchive interface {
	// Save stores the batch under its report date, replacing any previous one.
	Save(ctx context.Context, batch *WeeklyReportBatch) error

	Get(ctx context.Context, date Date) (*WeeklyReportBatch, error)

	// Dates lists archived report dates, ascending.
	Dates(ctx context.Context) ([]Date, error)
}
