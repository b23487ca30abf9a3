// Package http is the fiber surface over the pipeline. Handlers validate and
// translate; all real work happens in usecase, schedule and the pkg clients.
package http

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumeflow/internal/auth"
	"resumeflow/internal/config"
	"resumeflow/internal/domain"
	"resumeflow/internal/usecase"
	"resumeflow/pkg/ai"
	"resumeflow/pkg/mail"
	"resumeflow/pkg/scrape"
)

// UserStore is the slice of user persistence the handlers touch.
type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateMatchThreshold(ctx context.Context, id uuid.UUID, threshold int) error
	UpdateUserResume(ctx context.Context, id uuid.UUID, text, filename string) error
}

// JobStore is job persistence scoped to the requesting owner.
type JobStore interface {
	CreateJob(ctx context.Context, j *domain.Job) error
	GetJob(ctx context.Context, id, userID uuid.UUID) (*domain.Job, error)
	ListJobs(ctx context.Context, userID uuid.UUID) ([]domain.Job, error)
	DeleteJob(ctx context.Context, id, userID uuid.UUID) error
}

// SavedStore manages job bookmarks.
type SavedStore interface {
	SaveJob(ctx context.Context, userID, jobID uuid.UUID) error
	UnsaveJob(ctx context.Context, userID, jobID uuid.UUID) error
	ListSavedJobs(ctx context.Context, userID uuid.UUID) ([]domain.Job, error)
}

// ScheduleStore reads schedules; writes go through Scheduler so the trigger
// registry stays in sync.
type ScheduleStore interface {
	GetSchedule(ctx context.Context, userID uuid.UUID) (*domain.Schedule, error)
}

// Scheduler mutates schedules and their cron triggers together. Satisfied by
// schedule.Service.
type Scheduler interface {
	Upsert(ctx context.Context, sc *domain.Schedule) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// AIClient exposes the two direct LLM operations. Satisfied by ai.Client.
type AIClient interface {
	Configured() bool
	ScoreResume(ctx context.Context, resume, jobDescription string) (*ai.ScoreResult, error)
	TailorDocuments(ctx context.Context, req ai.TailorRequest) (*ai.TailorResult, error)
}

// Scraper finds postings. Satisfied by scrape.Client.
type Scraper interface {
	Configured() bool
	Scrape(ctx context.Context, q scrape.Query) ([]scrape.Posting, error)
}

// Mailer sends match notifications directly. Satisfied by mail.Mailer.
type Mailer interface {
	Configured() bool
	SendMatchEmail(ctx context.Context, em mail.MatchEmail) (*mail.SendResult, error)
}

// Batcher fans a set of postings out to the pipeline. Satisfied by
// usecase.Batch.
type Batcher interface {
	Run(ctx context.Context, params usecase.BatchParams, postings []scrape.Posting) ([]*usecase.JobHandle, error)
}

type Handler struct {
	users     UserStore
	jobs      JobStore
	saved     SavedStore
	schedules ScheduleStore
	scheduler Scheduler
	llm       AIClient
	scraper   Scraper
	mailer    Mailer
	batch     Batcher
	runner    usecase.JobRunner
	tokens    *auth.TokenIssuer
	defaults  config.SearchDefaults
	threshold int
	log       *zap.Logger
}

// Deps collects everything a Handler needs. Fields mirror the Handler one to
// one; main wires the concrete implementations in.
type Deps struct {
	Users     UserStore
	Jobs      JobStore
	Saved     SavedStore
	Schedules ScheduleStore
	Scheduler Scheduler
	LLM       AIClient
	Scraper   Scraper
	Mailer    Mailer
	Batch     Batcher
	Runner    usecase.JobRunner
	Tokens    *auth.TokenIssuer
	Defaults  config.SearchDefaults

	// Threshold is the match threshold new accounts start with. Zero means
	// the domain default.
	Threshold int

	Log *zap.Logger
}

func NewHandler(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	threshold := d.Threshold
	if threshold == 0 {
		threshold = domain.DefaultMatchThreshold
	}
	return &Handler{
		users:     d.Users,
		jobs:      d.Jobs,
		saved:     d.Saved,
		schedules: d.Schedules,
		scheduler: d.Scheduler,
		llm:       d.LLM,
		scraper:   d.Scraper,
		mailer:    d.Mailer,
		batch:     d.Batch,
		runner:    d.Runner,
		tokens:    d.Tokens,
		defaults:  d.Defaults,
		threshold: domain.ClampThreshold(threshold),
		log:       log,
	}
}
