package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, Date("2024-02-29"), d)

	for _, bad := range []string{"", "2024-2-29", "2023-02-29", "29/02/2024", "2024-02-29T10:00:00Z"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
}

func TestDate_Arithmetic(t *testing.T) {
	d := Date("2024-03-01")

	assert.Equal(t, Date("2024-02-29"), d.AddDays(-1))
	assert.Equal(t, Date("2024-03-31"), d.AddDays(30))
	assert.Equal(t, Date("2023-12-31"), Date("2024-01-01").AddDays(-1))

	assert.True(t, Date("2024-02-28").Before(d))
	assert.True(t, d.After(Date("2023-12-31")))
	assert.False(t, d.Before(d))
}

func TestDate_OrderingMatchesTime(t *testing.T) {
	dates := []Date{"2023-12-31", "2024-01-01", "2024-01-10", "2024-10-01", "2025-01-01"}

	for i := 0; i < len(dates)-1; i++ {
		assert.True(t, dates[i].Before(dates[i+1]))
		assert.True(t, dates[i].Time().Before(dates[i+1].Time()))
	}
}

func TestDaysBetween(t *testing.T) {
	days := DaysBetween("2024-02-27", "2024-03-02")
	assert.Equal(t, []Date{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}, days)

	assert.Equal(t, []Date{"2024-01-01"}, DaysBetween("2024-01-01", "2024-01-01"))
	assert.Empty(t, DaysBetween("2024-01-02", "2024-01-01"))
}

func TestClocks(t *testing.T) {
	t.Run("SystemClock honours location", func(t *testing.T) {
		loc := time.FixedZone("UTC+14", 14*3600)
		c := SystemClock{Location: loc}
		assert.Equal(t, loc, c.Now().Location())
		assert.Equal(t, NewDate(time.Now().In(loc)), c.Today())
	})

	t.Run("FixedClock is stable and movable", func(t *testing.T) {
		c := NewFixedClock(time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC))
		assert.Equal(t, Date("2024-01-31"), c.Today())

		c.Advance(2 * time.Hour)
		assert.Equal(t, Date("2024-02-01"), c.Today())

		c.Set(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, Date("2025-06-01"), c.Today())
	})
}
