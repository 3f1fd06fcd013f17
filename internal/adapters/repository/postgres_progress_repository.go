package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
)

var _ domain.ProgressRepository = (*PostgresProgressRepository)(nil)

type PostgresProgressRepository struct {
	db *sqlx.DB
}

func NewPostgresProgressRepository(db *sqlx.DB) *PostgresProgressRepository {
	return &PostgresProgressRepository{db: db}
}

// Increment runs as a single upsert so concurrent writers to the same row
// serialize on the primary key.
func (r *PostgresProgressRepository) Increment(ctx context.Context, habitID int64, date domain.Date, amount, limit float64) (float64, error) {
	query := `
		INSERT INTO habit_progress (habit_id, entry_date, value)
		VALUES ($1, $2::date, LEAST($3::float8, $4::float8))
		ON CONFLICT (habit_id, entry_date)
		DO UPDATE SET value = LEAST(habit_progress.value + $3::float8, $4::float8)
		RETURNING value`

	var value float64
	err := r.db.QueryRowxContext(ctx, query, habitID, date.String(), amount, limit).Scan(&value)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return 0, domain.ErrHabitNotFound
		}
		return 0, fmt.Errorf("progress upsert failed: %w", err)
	}

	return value, nil
}

func (r *PostgresProgressRepository) Get(ctx context.Context, habitID int64, date domain.Date) (float64, bool, error) {
	var value float64
	query := `SELECT value FROM habit_progress WHERE habit_id = $1 AND entry_date = $2::date`

	err := r.db.GetContext(ctx, &value, query, habitID, date.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("progress query failed: %w", err)
	}

	return value, true, nil
}

func (r *PostgresProgressRepository) ListRange(ctx context.Context, from, to domain.Date) (map[int64]map[domain.Date]float64, error) {
	entries := []domain.ProgressEntry{}

	query := `
		SELECT habit_id, to_char(entry_date, 'YYYY-MM-DD') AS entry_date, value
		FROM habit_progress
		WHERE entry_date >= $1::date
		  AND entry_date <= $2::date
		ORDER BY habit_id, entry_date`

	if err := r.db.SelectContext(ctx, &entries, query, from.String(), to.String()); err != nil {
		return nil, fmt.Errorf("range query failed: %w", err)
	}

	result := make(map[int64]map[domain.Date]float64)
	for _, e := range entries {
		if _, exists := result[e.HabitID]; !exists {
			result[e.HabitID] = make(map[domain.Date]float64)
		}
		result[e.HabitID][e.Date] = e.Value
	}

	return result, nil
}

func (r *PostgresProgressRepository) ListByHabit(ctx context.Context, habitID int64, from, to domain.Date) (map[domain.Date]float64, error) {
	entries := []domain.ProgressEntry{}

	query := `
		SELECT habit_id, to_char(entry_date, 'YYYY-MM-DD') AS entry_date, value
		FROM habit_progress
		WHERE habit_id = $1
		  AND entry_date >= $2::date
		  AND entry_date <= $3::date
		ORDER BY entry_date`

	if err := r.db.SelectContext(ctx, &entries, query, habitID, from.String(), to.String()); err != nil {
		return nil, fmt.Errorf("history query failed: %w", err)
	}

	result := make(map[domain.Date]float64, len(entries))
	for _, e := range entries {
		result[e.Date] = e.Value
	}

	return result, nil
}

func (r *PostgresProgressRepository) MaxByHabit(ctx context.Context) (map[int64]float64, error) {
	var rows []struct {
		HabitID int64   `db:"habit_id"`
		Max     float64 `db:"max_value"`
	}

	query := `SELECT habit_id, MAX(value) AS max_value FROM habit_progress GROUP BY habit_id`

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("max query failed: %w", err)
	}

	result := make(map[int64]float64, len(rows))
	for _, row := range rows {
		result[row.HabitID] = row.Max
	}

	return result, nil
}

func (r *PostgresProgressRepository) DeleteBefore(ctx context.Context, cutoff domain.Date) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM habit_progress WHERE entry_date < $1::date`, cutoff.String())
	if err != nil {
		return 0, fmt.Errorf("purge query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return rows, nil
}
