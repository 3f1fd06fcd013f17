package domain

import (
	"fmt"
	"math"
)

var ErrInvalidAmount = fmt.Errorf("%w: progress amount must be a non-negative number", ErrValidation)

const (
	DefaultIncrement     = 1.0
	DefaultRetentionDays = 30
	WeeklyWindowDays     = 7
)

type ProgressEntry struct {
	HabitID int64   `json:"habit_id" db:"habit_id"`
	Date    Date    `json:"date" db:"entry_date"`
	Value   float64 `json:"value" db:"value"`
}

type ProgressResult struct {
	HabitID  int64   `json:"habit_id"`
	Date     Date    `json:"date"`
	Progress float64 `json:"progress"`
	GoalMet  bool    `json:"goal_met"`
}

// NormalizeIncrement resolves an optional client amount. Missing or zero
// amounts count as a single unit.
func NormalizeIncrement(amount *float64) (float64, error) {
	if amount == nil || *amount == 0 {
		return DefaultIncrement, nil
	}
	v := *amount
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// RetentionCutoff is the oldest date still kept when entries expire after days.
func RetentionCutoff(today Date, days int) Date {
	return today.AddDays(-days)
}
