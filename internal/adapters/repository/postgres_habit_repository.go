package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
)

var _ domain.HabitRepository = (*PostgresHabitRepository)(nil)

type PostgresHabitRepository struct {
	db *sqlx.DB
}

func NewPostgresHabitRepository(db *sqlx.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

func (r *PostgresHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	query := `
        INSERT INTO habits (name, daily_goal, created_at)
        VALUES ($1, $2, $3)
        RETURNING id`

	var id int64
	err := r.db.QueryRowxContext(ctx, query, h.Name, h.DailyGoal, h.CreatedAt).Scan(&id)
	if err != nil {
		if pgErrorCode(err) == pgCheckViolation {
			return fmt.Errorf("%w: rejected by database constraint", domain.ErrValidation)
		}
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	h.ID = id
	return nil
}

func (r *PostgresHabitRepository) GetByID(ctx context.Context, id int64) (*domain.Habit, error) {
	var h domain.Habit
	query := `SELECT id, name, daily_goal, created_at FROM habits WHERE id = $1`

	err := r.db.GetContext(ctx, &h, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return &h, nil
}

func (r *PostgresHabitRepository) List(ctx context.Context) ([]*domain.Habit, error) {
	habits := []*domain.Habit{}
	query := `SELECT id, name, daily_goal, created_at FROM habits ORDER BY id ASC`

	if err := r.db.SelectContext(ctx, &habits, query); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	return habits, nil
}

func (r *PostgresHabitRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT count(*) FROM habits`); err != nil {
		return 0, fmt.Errorf("count query error: %w", err)
	}
	return count, nil
}
