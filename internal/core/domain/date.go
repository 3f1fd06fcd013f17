package domain

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidDate  = fmt.Errorf("%w: invalid date format (must be YYYY-MM-DD)", ErrValidation)
	ErrFutureDate   = fmt.Errorf("%w: date cannot be in the future", ErrValidation)
	ErrInvalidRange = fmt.Errorf("%w: start date cannot be after end date", ErrValidation)
)

// Date is a calendar day in canonical YYYY-MM-DD form. Because the layout is
// fixed-width, string comparison orders dates chronologically.
type Date string

func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return NewDate(t), nil
}

func (d Date) String() string {
	return string(d)
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

func (d Date) AddDays(n int) Date {
	return NewDate(d.Time().AddDate(0, 0, n))
}

func (d Date) Before(other Date) bool {
	return d < other
}

func (d Date) After(other Date) bool {
	return d > other
}

// DaysBetween lists every date in [from, to], ascending. Empty when from is after to.
func DaysBetween(from, to Date) []Date {
	var days []Date
	for d := from; !d.After(to); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}
