package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"resumeflow/internal/domain"
)

const pgUniqueViolation = "23505"

type UsersRepo struct {
	pool *pgxpool.Pool
}

func NewUsersRepo(pool *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{pool: pool}
}

func (r *UsersRepo) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO users (id, email, name, hashed_password, match_threshold, resume_text, resume_filename, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		u.ID, u.Email, u.Name, u.HashedPassword, u.MatchThreshold, u.ResumeText, u.ResumeFilename, u.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return domain.ErrDuplicateEmail
	}
	return err
}

func (r *UsersRepo) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		`SELECT id, email, name, hashed_password, match_threshold, resume_text, resume_filename, created_at
		 FROM users WHERE id = $1`, id))
}

func (r *UsersRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		`SELECT id, email, name, hashed_password, match_threshold, resume_text, resume_filename, created_at
		 FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *UsersRepo) UpdateMatchThreshold(ctx context.Context, id uuid.UUID, threshold int) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET match_threshold = $1 WHERE id = $2`, threshold, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UsersRepo) UpdateUserResume(ctx context.Context, id uuid.UUID, text, filename string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET resume_text = $1, resume_filename = $2 WHERE id = $3`, text, filename, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UsersRepo) scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.HashedPassword, &u.MatchThreshold, &u.ResumeText, &u.ResumeFilename, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
