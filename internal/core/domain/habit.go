package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var ErrValidation = errors.New("validation failed")

var (
	ErrHabitNameEmpty   = fmt.Errorf("%w: habit name cannot be empty", ErrValidation)
	ErrHabitNameTooLong = fmt.Errorf("%w: habit name is too long (max %d chars)", ErrValidation, MaxNameLen)
	ErrInvalidDailyGoal = fmt.Errorf("%w: daily goal must be a positive number", ErrValidation)
)

const MaxNameLen = 100

type Habit struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	DailyGoal float64   `json:"daily_goal" db:"daily_goal"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func validateGoal(goal float64) error {
	if math.IsNaN(goal) || math.IsInf(goal, 0) || goal <= 0 {
		return ErrInvalidDailyGoal
	}
	return nil
}

// NewHabit validates the input and returns an unsaved habit. The ID is
// assigned by the repository on Create.
func NewHabit(name string, dailyGoal float64, now time.Time) (*Habit, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrHabitNameEmpty
	}
	if len([]rune(trimmed)) > MaxNameLen {
		return nil, ErrHabitNameTooLong
	}

	if err := validateGoal(dailyGoal); err != nil {
		return nil, err
	}

	return &Habit{
		Name:      trimmed,
		DailyGoal: dailyGoal,
		CreatedAt: now.UTC(),
	}, nil
}

// Cap clamps an accumulated value into [0, DailyGoal].
func (h *Habit) Cap(value float64) float64 {
	if value < 0 {
		return 0
	}
	return math.Min(value, h.DailyGoal)
}

func (h *Habit) IsMet(progress float64) bool {
	return progress >= h.DailyGoal
}
