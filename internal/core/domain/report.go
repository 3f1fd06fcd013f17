package domain

import "time"

type DayProgress struct {
	Progress  float64 `json:"progress"`
	Completed bool    `json:"completed"`
}

type WeeklyReport struct {
	HabitID          int64                `json:"habit_id"`
	Name             string               `json:"name"`
	DailyGoal        float64              `json:"daily_goal"`
	WeeklyData       map[Date]DayProgress `json:"weekly_data"`
	WeeklyCompletion int                  `json:"weekly_completion"`
}

type WeeklyReportBatch struct {
	ReportDate  Date           `json:"report_date"`
	GeneratedAt time.Time      `json:"generated_at"`
	Reports     []WeeklyReport `json:"report"`
}

// WeekWindow returns the inclusive bounds of the trailing week ending at ref.
func WeekWindow(ref Date) (from, to Date) {
	return ref.AddDays(-(WeeklyWindowDays - 1)), ref
}

// BuildWeeklyReport rolls recorded entries into a report. Dates outside the
// window are ignored and days without an entry are left out of WeeklyData.
func BuildWeeklyReport(h *Habit, entries map[Date]float64, ref Date) WeeklyReport {
	from, to := WeekWindow(ref)

	report := WeeklyReport{
		HabitID:    h.ID,
		Name:       h.Name,
		DailyGoal:  h.DailyGoal,
		WeeklyData: make(map[Date]DayProgress),
	}

	for date, progress := range entries {
		if date.Before(from) || date.After(to) {
			continue
		}
		day := DayProgress{Progress: progress, Completed: h.IsMet(progress)}
		report.WeeklyData[date] = day
		if day.Completed {
			report.WeeklyCompletion++
		}
	}

	return report
}
