package services

import (
	"context"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-tracker/internal/metrics"
)

type ReportService struct {
	habitRepo domain.HabitRepository
	entryRepo domain.ProgressRepository
	archive   domain.ReportArchive
	clock     domain.Clock
}

func NewReportService(habitRepo domain.HabitRepository, entryRepo domain.ProgressRepository, archive domain.ReportArchive, clock domain.Clock) *ReportService {
	return &ReportService{
		habitRepo: habitRepo,
		entryRepo: entryRepo,
		archive:   archive,
		clock:     clock,
	}
}

// GenerateWeekly builds the trailing-week report of every habit ending at
// reference (today when nil) and archives it under that date.
func (s *ReportService) GenerateWeekly(ctx context.Context, reference *domain.Date) (*domain.WeeklyReportBatch, error) {
	today := s.clock.Today()
	ref := today
	if reference != nil {
		ref = *reference
		if ref.After(today) {
			return nil, domain.ErrFutureDate
		}
	}

	habits, err := s.habitRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	from, to := domain.WeekWindow(ref)
	entries, err := s.entryRepo.ListRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	batch := &domain.WeeklyReportBatch{
		ReportDate:  ref,
		GeneratedAt: s.clock.Now().UTC(),
		Reports:     make([]domain.WeeklyReport, 0, len(habits)),
	}

	for _, h := range habits {
		batch.Reports = append(batch.Reports, domain.BuildWeeklyReport(h, entries[h.ID], ref))
	}

	if err := s.archive.Save(ctx, batch); err != nil {
		return nil, err
	}

	metrics.RecordReportGenerated()
	return batch, nil
}

func (s *ReportService) Archived(ctx context.Context, date domain.Date) (*domain.WeeklyReportBatch, error) {
	return s.archive.Get(ctx, date)
}

func (s *ReportService) ArchivedDates(ctx context.Context) ([]domain.Date, error) {
	return s.archive.Dates(ctx)
}
