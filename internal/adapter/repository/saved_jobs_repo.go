package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"resumeflow/internal/domain"
)

type SavedJobsRepo struct {
	pool *pgxpool.Pool
}

func NewSavedJobsRepo(pool *pgxpool.Pool) *SavedJobsRepo {
	return &SavedJobsRepo{pool: pool}
}

// SaveJob bookmarks a job for the user. Saving twice is a no-op.
func (r *SavedJobsRepo) SaveJob(ctx context.Context, userID, jobID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO saved_jobs (user_id, job_id) VALUES ($1, $2)
		ON CONFLICT (user_id, job_id) DO NOTHING`, userID, jobID)
	return err
}

func (r *SavedJobsRepo) UnsaveJob(ctx context.Context, userID, jobID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM saved_jobs WHERE user_id = $1 AND job_id = $2`, userID, jobID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListSavedJobs returns the user's bookmarked job records, newest bookmark
// first.
func (r *SavedJobsRepo) ListSavedJobs(ctx context.Context, userID uuid.UUID) ([]domain.Job, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+prefixColumns("j", jobColumns)+`
		FROM saved_jobs s JOIN jobs j ON j.id = s.job_id
		WHERE s.user_id = $1 ORDER BY s.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}
