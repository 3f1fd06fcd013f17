package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS habits (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL CHECK (length(trim(name)) > 0),
		daily_goal DOUBLE PRECISION NOT NULL CHECK (daily_goal > 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS habit_progress (
		habit_id   BIGINT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
		entry_date DATE NOT NULL,
		value      DOUBLE PRECISION NOT NULL CHECK (value >= 0),
		PRIMARY KEY (habit_id, entry_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_habit_progress_date ON habit_progress (entry_date)`,
	`CREATE TABLE IF NOT EXISTS weekly_logs (
		report_date  DATE PRIMARY KEY,
		generated_at TIMESTAMPTZ NOT NULL,
		reports      JSONB NOT NULL
	)`,
}

// Migrate creates the tables used by the PostgreSQL repositories. Every
// statement is idempotent so it runs on each startup.
func Migrate(ctx context.Context, db sqlx.ExecerContext) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d failed: %w", i+1, err)
		}
	}
	return nil
}
