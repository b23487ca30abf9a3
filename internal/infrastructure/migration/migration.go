package migration

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

// Migration is one named schema change.
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

// RunMigrations executes all schema migrations on startup. Every statement is
// idempotent, so rerunning on every boot is safe.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) error {
	migrations := []Migration{
		{Name: "create_users_table", Up: createUsersTable},
		{Name: "create_jobs_table", Up: createJobsTable},
		{Name: "create_saved_jobs_table", Up: createSavedJobsTable},
		{Name: "create_user_schedules_table", Up: createUserSchedulesTable},
	}

	for _, m := range migrations {
		if err := m.Up(ctx, pool); err != nil {
			log.Error("migration failed", zap.String("name", m.Name), zap.Error(err))
			return err
		}
		log.Debug("migration applied", zap.String("name", m.Name))
	}

	log.Info("database migrations complete", zap.Int("count", len(migrations)))
	return nil
}

func createUsersTable(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			hashed_password TEXT NOT NULL,
			match_threshold INT NOT NULL DEFAULT 75,
			resume_text TEXT NOT NULL DEFAULT '',
			resume_filename TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return err
}

func createJobsTable(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS jobs (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL DEFAULT '',
			company TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			platform TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			date_posted TEXT NOT NULL DEFAULT '',
			resume TEXT NOT NULL DEFAULT '',
			job_description TEXT NOT NULL DEFAULT '',
			applicant_name TEXT NOT NULL DEFAULT '',
			recipient_email TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'queued',
			match_score INT,
			reasoning TEXT,
			missing_skills JSONB NOT NULL DEFAULT '[]'::jsonb,
			resume_suggestions TEXT,
			cover_letter TEXT,
			error TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return err
	}
	_, err := pool.Exec(ctx,
		`CREATE INDEX IF NOT EXISTS idx_jobs_user_created ON jobs (user_id, created_at DESC)`)
	return err
}

func createSavedJobsTable(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS saved_jobs (
			id BIGSERIAL PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
			UNIQUE (user_id, job_id)
		)`)
	return err
}

func createUserSchedulesTable(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS user_schedules (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			keywords TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			platforms JSONB NOT NULL DEFAULT '[]'::jsonb,
			results_per_site INT NOT NULL DEFAULT 10,
			hours_old INT NOT NULL DEFAULT 72,
			auto_pipeline BOOLEAN NOT NULL DEFAULT true,
			run_time TEXT NOT NULL DEFAULT '09:00',
			enabled BOOLEAN NOT NULL DEFAULT true,
			last_run TIMESTAMPTZ
		)`)
	return err
}
