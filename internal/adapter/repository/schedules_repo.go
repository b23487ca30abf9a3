package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"resumeflow/internal/domain"
)

type SchedulesRepo struct {
	pool *pgxpool.Pool
}

func NewSchedulesRepo(pool *pgxpool.Pool) *SchedulesRepo {
	return &SchedulesRepo{pool: pool}
}

// UpsertSchedule writes the user's schedule; each user has at most one.
func (r *SchedulesRepo) UpsertSchedule(ctx context.Context, s *domain.Schedule) error {
	platforms := s.Platforms
	if platforms == nil {
		platforms = []string{}
	}
	platformsJSON, err := json.Marshal(platforms)
	if err != nil {
		return fmt.Errorf("encode platforms: %w", err)
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO user_schedules
		(user_id, keywords, location, platforms, results_per_site, hours_old, auto_pipeline, run_time, enabled, last_run)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (user_id) DO UPDATE SET
			keywords = EXCLUDED.keywords,
			location = EXCLUDED.location,
			platforms = EXCLUDED.platforms,
			results_per_site = EXCLUDED.results_per_site,
			hours_old = EXCLUDED.hours_old,
			auto_pipeline = EXCLUDED.auto_pipeline,
			run_time = EXCLUDED.run_time,
			enabled = EXCLUDED.enabled`,
		s.UserID, s.Keywords, s.Location, platformsJSON, s.ResultsPerSite, s.HoursOld,
		s.AutoPipeline, s.RunTime, s.Enabled, s.LastRun)
	return err
}

func (r *SchedulesRepo) GetSchedule(ctx context.Context, userID uuid.UUID) (*domain.Schedule, error) {
	return scanSchedule(r.pool.QueryRow(ctx, `SELECT user_id, keywords, location, platforms,
		results_per_site, hours_old, auto_pipeline, run_time, enabled, last_run
		FROM user_schedules WHERE user_id = $1`, userID))
}

func (r *SchedulesRepo) DeleteSchedule(ctx context.Context, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM user_schedules WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListEnabledSchedules returns every enabled schedule, for rebuilding cron
// triggers at startup.
func (r *SchedulesRepo) ListEnabledSchedules(ctx context.Context) ([]domain.Schedule, error) {
	rows, err := r.pool.Query(ctx, `SELECT user_id, keywords, location, platforms,
		results_per_site, hours_old, auto_pipeline, run_time, enabled, last_run
		FROM user_schedules WHERE enabled`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []domain.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *s)
	}
	return schedules, rows.Err()
}

func (r *SchedulesRepo) MarkScheduleRun(ctx context.Context, userID uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE user_schedules SET last_run = $1 WHERE user_id = $2`, at, userID)
	return err
}

func scanSchedule(row rowScanner) (*domain.Schedule, error) {
	var s domain.Schedule
	var platformsJSON []byte
	err := row.Scan(&s.UserID, &s.Keywords, &s.Location, &platformsJSON,
		&s.ResultsPerSite, &s.HoursOld, &s.AutoPipeline, &s.RunTime, &s.Enabled, &s.LastRun)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(platformsJSON) > 0 {
		if err := json.Unmarshal(platformsJSON, &s.Platforms); err != nil {
			return nil, fmt.Errorf("decode platforms: %w", err)
		}
	}
	return &s, nil
}
