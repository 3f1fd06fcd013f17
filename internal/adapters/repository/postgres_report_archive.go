package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
)

var _ domain.ReportArchive = (*PostgresReportArchive)(nil)

type PostgresReportArchive struct {
	db *sqlx.DB
}

func NewPostgresReportArchive(db *sqlx.DB) *PostgresReportArchive {
	return &PostgresReportArchive{db: db}
}

type weeklyLogRow struct {
	ReportDate  string    `db:"report_date"`
	GeneratedAt time.Time `db:"generated_at"`
	Reports     []byte    `db:"reports"`
}

func (a *PostgresReportArchive) Save(ctx context.Context, batch *domain.WeeklyReportBatch) error {
	data, err := json.Marshal(batch.Reports)
	if err != nil {
		return fmt.Errorf("failed to marshal reports: %w", err)
	}

	query := `
		INSERT INTO weekly_logs (report_date, generated_at, reports)
		VALUES ($1::date, $2, $3)
		ON CONFLICT (report_date)
		DO UPDATE SET generated_at = EXCLUDED.generated_at,
		              reports = EXCLUDED.reports`

	if _, err := a.db.ExecContext(ctx, query, batch.ReportDate.String(), batch.GeneratedAt, data); err != nil {
		return fmt.Errorf("failed to archive report: %w", err)
	}

	return nil
}

func (a *PostgresReportArchive) Get(ctx context.Context, date domain.Date) (*domain.WeeklyReportBatch, error) {
	var row weeklyLogRow
	query := `
		SELECT to_char(report_date, 'YYYY-MM-DD') AS report_date, generated_at, reports
		FROM weekly_logs
		WHERE report_date = $1::date`

	if err := a.db.GetContext(ctx, &row, query, date.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("archive query failed: %w", err)
	}

	batch := &domain.WeeklyReportBatch{
		ReportDate:  domain.Date(row.ReportDate),
		GeneratedAt: row.GeneratedAt,
	}
	if err := json.Unmarshal(row.Reports, &batch.Reports); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reports: %w", err)
	}

	return batch, nil
}

func (a *PostgresReportArchive) Dates(ctx context.Context) ([]domain.Date, error) {
	dates := []domain.Date{}
	query := `SELECT to_char(report_date, 'YYYY-MM-DD') FROM weekly_logs ORDER BY report_date ASC`

	if err := a.db.SelectContext(ctx, &dates, query); err != nil {
		return nil, fmt.Errorf("archive dates query failed: %w", err)
	}

	return dates, nil
}
