// Package usecase drives jobs through the application pipeline: score the
// resume against the posting, gate on the user's threshold, tailor the
// documents, send the notification.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumeflow/internal/domain"
	"resumeflow/pkg/ai"
	"resumeflow/pkg/mail"
)

type JobStore interface {
	CreateJob(ctx context.Context, job *domain.Job) error
	UpdateJob(ctx context.Context, id uuid.UUID, upd domain.JobUpdate) error
}

type UserStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type Scorer interface {
	ScoreResume(ctx context.Context, resume, jobDescription string) (*ai.ScoreResult, error)
}

type Tailor interface {
	TailorDocuments(ctx context.Context, req ai.TailorRequest) (*ai.TailorResult, error)
}

type Notifier interface {
	SendMatchEmail(ctx context.Context, em mail.MatchEmail) (*mail.SendResult, error)
}

type Pipeline struct {
	jobs   JobStore
	users  UserStore
	scorer Scorer
	tailor Tailor
	mailer Notifier
	log    *zap.Logger
	now    func() time.Time
}

func NewPipeline(jobs JobStore, users UserStore, scorer Scorer, tailor Tailor, mailer Notifier, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		jobs:   jobs,
		users:  users,
		scorer: scorer,
		tailor: tailor,
		mailer: mailer,
		log:    log,
		now:    time.Now,
	}
}

// Run drives one job through the full pipeline. Each stage writes its status
// before doing any work, so a crash mid-stage leaves the record showing
// exactly where processing stopped. The returned error has already been
// recorded on the job.
func (p *Pipeline) Run(ctx context.Context, job *domain.Job) error {
	score, err := p.scoreStage(ctx, job)
	if err != nil {
		return err
	}

	// The threshold is read after scoring, so a change made while a batch is
	// in flight applies to every gate decision from then on.
	threshold := p.threshold(ctx, job.UserID)
	if score.MatchScore < threshold {
		p.log.Info("job below match threshold",
			zap.String("job_id", job.ID.String()),
			zap.Int("score", score.MatchScore),
			zap.Int("threshold", threshold))
		return p.apply(ctx, job, scoreUpdate(domain.StatusBelowThreshold, score))
	}

	if err := p.apply(ctx, job, scoreUpdate(domain.StatusTailoring, score)); err != nil {
		return err
	}

	docs, err := p.tailor.TailorDocuments(ctx, ai.TailorRequest{
		Resume:         job.Resume,
		JobDescription: job.JobDescription,
		MissingSkills:  job.MissingSkills,
		ApplicantName:  job.ApplicantName,
		JobTitle:       job.Title,
		Company:        job.Company,
	})
	if err != nil {
		return p.failStage(ctx, job, StageTailoring, err)
	}

	upd := statusUpdate(domain.StatusEmailing)
	upd.ResumeSuggestions = &docs.ResumeSuggestions
	upd.CoverLetter = &docs.CoverLetter
	if err := p.apply(ctx, job, upd); err != nil {
		return err
	}

	res, err := p.mailer.SendMatchEmail(ctx, mail.MatchEmail{
		Recipient:     job.RecipientEmail,
		ApplicantName: job.ApplicantName,
		JobTitle:      job.Title,
		Company:       job.Company,
		JobURL:        job.URL,
		MatchScore:    score.MatchScore,
		Suggestions:   docs.ResumeSuggestions,
		CoverLetter:   docs.CoverLetter,
	})
	if err != nil {
		return p.failStage(ctx, job, StageEmail, err)
	}

	final := domain.StatusEmailed
	if res.Status == mail.StatusSkipped {
		// A skipped notification is a finished job, not a failed one.
		final = domain.StatusScored
		p.log.Info("notification skipped",
			zap.String("job_id", job.ID.String()),
			zap.String("reason", res.Reason))
	}
	if err := p.apply(ctx, job, statusUpdate(final)); err != nil {
		return err
	}

	p.log.Info("pipeline finished",
		zap.String("job_id", job.ID.String()),
		zap.String("status", string(final)),
		zap.Int("score", score.MatchScore))
	return nil
}

// ScoreOnly scores the job and stops, skipping the gate, tailoring and email.
// Batches run this way when the auto pipeline is disabled.
func (p *Pipeline) ScoreOnly(ctx context.Context, job *domain.Job) error {
	score, err := p.scoreStage(ctx, job)
	if err != nil {
		return err
	}
	return p.apply(ctx, job, scoreUpdate(domain.StatusScored, score))
}

func (p *Pipeline) scoreStage(ctx context.Context, job *domain.Job) (*ai.ScoreResult, error) {
	if err := p.apply(ctx, job, statusUpdate(domain.StatusScoring)); err != nil {
		return nil, err
	}
	score, err := p.scorer.ScoreResume(ctx, job.Resume, job.JobDescription)
	if err != nil {
		return nil, p.failStage(ctx, job, StageScoring, err)
	}
	return score, nil
}

// threshold reads the owner's current match threshold, falling back to the
// default when the user record cannot be loaded.
func (p *Pipeline) threshold(ctx context.Context, userID uuid.UUID) int {
	u, err := p.users.GetUser(ctx, userID)
	if err != nil {
		p.log.Warn("read match threshold",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return domain.DefaultMatchThreshold
	}
	return domain.ClampThreshold(u.MatchThreshold)
}

// failStage records the stage-tagged error on the job and returns it.
func (p *Pipeline) failStage(ctx context.Context, job *domain.Job, stage string, err error) error {
	stageErr := &StageError{Stage: stage, Err: err}
	msg := stageErr.Error()
	upd := statusUpdate(domain.StatusError)
	upd.Error = &msg
	if uerr := p.apply(ctx, job, upd); uerr != nil {
		p.log.Error("record job failure",
			zap.String("job_id", job.ID.String()),
			zap.Error(uerr))
	}
	p.log.Warn("pipeline stage failed",
		zap.String("job_id", job.ID.String()),
		zap.String("stage", stage),
		zap.Error(err))
	return stageErr
}

// apply writes the update through the store and, on success, mirrors it onto
// the in-memory job so later stages see current state.
func (p *Pipeline) apply(ctx context.Context, job *domain.Job, upd domain.JobUpdate) error {
	if err := p.jobs.UpdateJob(ctx, job.ID, upd); err != nil {
		return fmt.Errorf("update job %s: %w", job.ID, err)
	}
	job.Apply(upd, p.now())
	return nil
}

func statusUpdate(s domain.JobStatus) domain.JobUpdate {
	return domain.JobUpdate{Status: &s}
}

func scoreUpdate(status domain.JobStatus, score *ai.ScoreResult) domain.JobUpdate {
	missing := score.MissingSkills
	if missing == nil {
		missing = []string{}
	}
	upd := statusUpdate(status)
	upd.MatchScore = &score.MatchScore
	upd.Reasoning = &score.Reasoning
	upd.MissingSkills = missing
	return upd
}
