package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"resumeflow/internal/domain"
)

// Store is the full persistence surface. Consumers depend on their own
// narrower slices of it; main picks one implementation and hands it to all
// of them.
type Store interface {
	CreateJob(ctx context.Context, j *domain.Job) error
	UpdateJob(ctx context.Context, id uuid.UUID, upd domain.JobUpdate) error
	GetJob(ctx context.Context, id, userID uuid.UUID) (*domain.Job, error)
	ListJobs(ctx context.Context, userID uuid.UUID) ([]domain.Job, error)
	DeleteJob(ctx context.Context, id, userID uuid.UUID) error

	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateMatchThreshold(ctx context.Context, id uuid.UUID, threshold int) error
	UpdateUserResume(ctx context.Context, id uuid.UUID, text, filename string) error

	UpsertSchedule(ctx context.Context, sc *domain.Schedule) error
	GetSchedule(ctx context.Context, userID uuid.UUID) (*domain.Schedule, error)
	DeleteSchedule(ctx context.Context, userID uuid.UUID) error
	ListEnabledSchedules(ctx context.Context) ([]domain.Schedule, error)
	MarkScheduleRun(ctx context.Context, userID uuid.UUID, at time.Time) error

	SaveJob(ctx context.Context, userID, jobID uuid.UUID) error
	UnsaveJob(ctx context.Context, userID, jobID uuid.UUID) error
	ListSavedJobs(ctx context.Context, userID uuid.UUID) ([]domain.Job, error)
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)

// PostgresStore bundles the per-table repos behind one value.
type PostgresStore struct {
	*JobsRepo
	*UsersRepo
	*SchedulesRepo
	*SavedJobsRepo
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		JobsRepo:      NewJobsRepo(pool),
		UsersRepo:     NewUsersRepo(pool),
		SchedulesRepo: NewSchedulesRepo(pool),
		SavedJobsRepo: NewSavedJobsRepo(pool),
	}
}
