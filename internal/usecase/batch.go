package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumeflow/internal/domain"
	"resumeflow/pkg/scrape"
)

// batchConcurrency caps how many jobs process at once. Scoring and tailoring
// both hit the LLM, so an uncapped batch would burn straight through the rate
// limit.
const batchConcurrency = 5

const defaultApplicantName = "Applicant"

// JobRunner runs a single job. Satisfied by Pipeline.
type JobRunner interface {
	Run(ctx context.Context, job *domain.Job) error
	ScoreOnly(ctx context.Context, job *domain.Job) error
}

// BatchParams carries the inputs shared by every job in a batch.
type BatchParams struct {
	UserID         uuid.UUID
	Resume         string
	RecipientEmail string
	ApplicantName  string
	AutoPipeline   bool
}

// JobHandle lets a caller await one job from a batch.
type JobHandle struct {
	JobID uuid.UUID

	done chan struct{}
	err  error
}

// Wait blocks until the job finishes or ctx is cancelled, returning whatever
// the pipeline returned for the job.
func (h *JobHandle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

type Batch struct {
	runner      JobRunner
	jobs        JobStore
	log         *zap.Logger
	concurrency int
}

func NewBatch(runner JobRunner, jobs JobStore, log *zap.Logger) *Batch {
	if log == nil {
		log = zap.NewNop()
	}
	return &Batch{
		runner:      runner,
		jobs:        jobs,
		log:         log,
		concurrency: batchConcurrency,
	}
}

// Run creates one queued job record per posting, then processes them with a
// bounded number of workers. Every record exists before the first worker
// starts, so a caller listing jobs right after Run returns sees the whole
// batch. The returned handles are in posting order.
func (b *Batch) Run(ctx context.Context, params BatchParams, postings []scrape.Posting) ([]*JobHandle, error) {
	applicant := params.ApplicantName
	if applicant == "" {
		applicant = defaultApplicantName
	}

	now := time.Now()
	jobs := make([]*domain.Job, 0, len(postings))
	for _, posting := range postings {
		job := &domain.Job{
			ID:             uuid.New(),
			UserID:         params.UserID,
			Title:          posting.Title,
			Company:        posting.Company,
			URL:            posting.URL,
			Platform:       posting.Platform,
			Location:       posting.Location,
			DatePosted:     posting.DatePosted,
			Resume:         params.Resume,
			JobDescription: posting.Description,
			ApplicantName:  applicant,
			RecipientEmail: params.RecipientEmail,
			Status:         domain.StatusQueued,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := b.jobs.CreateJob(ctx, job); err != nil {
			return nil, fmt.Errorf("create job record for %q: %w", posting.Title, err)
		}
		jobs = append(jobs, job)
	}

	b.log.Info("batch started",
		zap.String("user_id", params.UserID.String()),
		zap.Int("jobs", len(jobs)),
		zap.Bool("auto_pipeline", params.AutoPipeline))

	handles := make([]*JobHandle, len(jobs))
	sem := make(chan struct{}, b.concurrency)
	for i, job := range jobs {
		h := &JobHandle{JobID: job.ID, done: make(chan struct{})}
		handles[i] = h
		go func(job *domain.Job, h *JobHandle) {
			defer close(h.done)
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				h.err = ctx.Err()
				return
			}
			defer func() { <-sem }()

			if params.AutoPipeline {
				h.err = b.runner.Run(ctx, job)
			} else {
				h.err = b.runner.ScoreOnly(ctx, job)
			}
		}(job, h)
	}
	return handles, nil
}
