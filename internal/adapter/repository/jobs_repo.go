package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"resumeflow/internal/domain"
)

type JobsRepo struct {
	pool *pgxpool.Pool
}

func NewJobsRepo(pool *pgxpool.Pool) *JobsRepo {
	return &JobsRepo{pool: pool}
}

const jobColumns = `id, user_id, title, company, url, platform, location, date_posted,
	resume, job_description, applicant_name, recipient_email,
	status, match_score, reasoning, missing_skills, resume_suggestions, cover_letter, error,
	created_at, updated_at`

func (r *JobsRepo) CreateJob(ctx context.Context, j *domain.Job) error {
	skills := j.MissingSkills
	if skills == nil {
		skills = []string{}
	}
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return fmt.Errorf("encode missing_skills: %w", err)
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO jobs (`+jobColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`,
		j.ID, j.UserID, j.Title, j.Company, j.URL, j.Platform, j.Location, j.DatePosted,
		j.Resume, j.JobDescription, j.ApplicantName, j.RecipientEmail,
		j.Status, j.MatchScore, j.Reasoning, skillsJSON, j.ResumeSuggestions, j.CoverLetter, j.Error,
		j.CreatedAt, j.UpdatedAt)
	return err
}

// UpdateJob applies a partial update, touching only the columns the update
// carries.
func (r *JobsRepo) UpdateJob(ctx context.Context, id uuid.UUID, upd domain.JobUpdate) error {
	var sets []string
	var args []interface{}
	add := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.MatchScore != nil {
		add("match_score", *upd.MatchScore)
	}
	if upd.Reasoning != nil {
		add("reasoning", *upd.Reasoning)
	}
	if upd.MissingSkills != nil {
		b, err := json.Marshal(upd.MissingSkills)
		if err != nil {
			return fmt.Errorf("encode missing_skills: %w", err)
		}
		add("missing_skills", b)
	}
	if upd.ResumeSuggestions != nil {
		add("resume_suggestions", *upd.ResumeSuggestions)
	}
	if upd.CoverLetter != nil {
		add("cover_letter", *upd.CoverLetter)
	}
	if upd.Error != nil {
		add("error", *upd.Error)
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE jobs SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *JobsRepo) GetJob(ctx context.Context, id, userID uuid.UUID) (*domain.Job, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1 AND user_id = $2`, id, userID)
	return scanJob(row)
}

func (r *JobsRepo) ListJobs(ctx context.Context, userID uuid.UUID) ([]domain.Job, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+jobColumns+` FROM jobs WHERE user_id = $1 ORDER BY created_at DESC`, userID)
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

func (r *JobsRepo) DeleteJob(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// prefixColumns qualifies a column list with a table alias for joins.
func prefixColumns(alias, cols string) string {
	parts := strings.Split(cols, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var j domain.Job
	var skillsJSON []byte
	err := row.Scan(
		&j.ID, &j.UserID, &j.Title, &j.Company, &j.URL, &j.Platform, &j.Location, &j.DatePosted,
		&j.Resume, &j.JobDescription, &j.ApplicantName, &j.RecipientEmail,
		&j.Status, &j.MatchScore, &j.Reasoning, &skillsJSON, &j.ResumeSuggestions, &j.CoverLetter, &j.Error,
		&j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(skillsJSON) > 0 {
		if err := json.Unmarshal(skillsJSON, &j.MissingSkills); err != nil {
			return nil, fmt.Errorf("decode missing_skills: %w", err)
		}
	}
	return &j, nil
}
