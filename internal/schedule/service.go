package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumeflow/internal/domain"
	"resumeflow/internal/usecase"
	"resumeflow/pkg/scrape"
)

// misfireGrace is how late a missed daily run may still be caught up after a
// restart.
const misfireGrace = 5 * time.Minute

type ScheduleStore interface {
	GetSchedule(ctx context.Context, userID uuid.UUID) (*domain.Schedule, error)
	UpsertSchedule(ctx context.Context, s *domain.Schedule) error
	DeleteSchedule(ctx context.Context, userID uuid.UUID) error
	ListEnabledSchedules(ctx context.Context) ([]domain.Schedule, error)
	MarkScheduleRun(ctx context.Context, userID uuid.UUID, at time.Time) error
}

type UserStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type Scraper interface {
	Scrape(ctx context.Context, q scrape.Query) ([]scrape.Posting, error)
}

type BatchRunner interface {
	Run(ctx context.Context, params usecase.BatchParams, postings []scrape.Posting) ([]*usecase.JobHandle, error)
}

// Service keeps the trigger registry in sync with persisted schedules and
// executes scheduled runs.
type Service struct {
	store    ScheduleStore
	users    UserStore
	scraper  Scraper
	batch    BatchRunner
	registry TriggerRegistry
	log      *zap.Logger
	grace    time.Duration
	now      func() time.Time
}

func NewService(store ScheduleStore, users UserStore, scraper Scraper, batch BatchRunner, registry TriggerRegistry, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:    store,
		users:    users,
		scraper:  scraper,
		batch:    batch,
		registry: registry,
		log:      log,
		grace:    misfireGrace,
		now:      time.Now,
	}
}

// Upsert persists the schedule and syncs its trigger in the same operation,
// so the registry never drifts from the store.
func (s *Service) Upsert(ctx context.Context, sc *domain.Schedule) error {
	spec, err := cronSpec(sc.RunTime)
	if err != nil {
		return err
	}
	if err := s.store.UpsertSchedule(ctx, sc); err != nil {
		return err
	}
	if !sc.Enabled {
		s.registry.Remove(sc.UserID.String())
		return nil
	}
	return s.registry.Register(sc.UserID.String(), spec, s.trigger(sc.UserID))
}

func (s *Service) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.DeleteSchedule(ctx, userID); err != nil {
		return err
	}
	s.registry.Remove(userID.String())
	return nil
}

// Rebuild registers a trigger for every enabled schedule. A run whose time
// passed less than the grace window ago without firing is caught up
// immediately, so a restart straddling someone's run time does not cost them
// the day.
func (s *Service) Rebuild(ctx context.Context) error {
	schedules, err := s.store.ListEnabledSchedules(ctx)
	if err != nil {
		return err
	}
	registered := 0
	for _, sc := range schedules {
		spec, err := cronSpec(sc.RunTime)
		if err != nil {
			s.log.Warn("skipping schedule with bad run time",
				zap.String("user_id", sc.UserID.String()),
				zap.String("run_time", sc.RunTime))
			continue
		}
		if err := s.registry.Register(sc.UserID.String(), spec, s.trigger(sc.UserID)); err != nil {
			return fmt.Errorf("register trigger for %s: %w", sc.UserID, err)
		}
		registered++
		if s.missedWithinGrace(sc) {
			s.log.Info("catching up missed scheduled run", zap.String("user_id", sc.UserID.String()))
			go s.fire(sc.UserID)
		}
	}
	s.log.Info("schedule triggers rebuilt", zap.Int("count", registered))
	return nil
}

// RunNow executes one scheduled search for the user: scrape with their stored
// parameters and feed the results through a batch using their stored resume.
func (s *Service) RunNow(ctx context.Context, userID uuid.UUID) error {
	sc, err := s.store.GetSchedule(ctx, userID)
	if err != nil {
		return fmt.Errorf("load schedule: %w", err)
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if !user.HasResume() {
		return errors.New("no stored resume to match against")
	}

	term := scrape.SearchTerm(sc.Keywords, user.ResumeText)
	postings, err := s.scraper.Scrape(ctx, scrape.Query{
		Keywords:       term,
		Location:       sc.Location,
		Platforms:      sc.Platforms,
		ResultsPerSite: sc.ResultsPerSite,
		HoursOld:       sc.HoursOld,
	})
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}

	if err := s.store.MarkScheduleRun(ctx, userID, s.now()); err != nil {
		s.log.Warn("mark schedule run", zap.String("user_id", userID.String()), zap.Error(err))
	}

	if len(postings) == 0 {
		s.log.Info("scheduled run found no postings",
			zap.String("user_id", userID.String()),
			zap.String("search", term))
		return nil
	}

	_, err = s.batch.Run(ctx, usecase.BatchParams{
		UserID:         userID,
		Resume:         user.ResumeText,
		RecipientEmail: user.Email,
		ApplicantName:  user.Name,
		AutoPipeline:   sc.AutoPipeline,
	}, postings)
	if err != nil {
		return fmt.Errorf("start batch: %w", err)
	}

	s.log.Info("scheduled run started",
		zap.String("user_id", userID.String()),
		zap.Int("postings", len(postings)),
		zap.Bool("auto_pipeline", sc.AutoPipeline))
	return nil
}

func (s *Service) trigger(userID uuid.UUID) func() {
	return func() { s.fire(userID) }
}

// fire runs outside any request, so it gets a fresh background context. The
// batch it starts owns its own lifetime.
func (s *Service) fire(userID uuid.UUID) {
	if err := s.RunNow(context.Background(), userID); err != nil {
		s.log.Error("scheduled run failed",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
}

// missedWithinGrace reports whether today's run time passed no more than the
// grace window ago without the schedule actually running.
func (s *Service) missedWithinGrace(sc domain.Schedule) bool {
	t, err := time.Parse("15:04", sc.RunTime)
	if err != nil {
		return false
	}
	now := s.now().UTC()
	todayRun := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	if now.Before(todayRun) || now.Sub(todayRun) > s.grace {
		return false
	}
	return sc.LastRun == nil || sc.LastRun.Before(todayRun)
}

// cronSpec converts an HH:MM wall time into a daily cron spec.
func cronSpec(runTime string) (string, error) {
	t, err := time.Parse("15:04", runTime)
	if err != nil {
		return "", fmt.Errorf("run time must be HH:MM, got %q", runTime)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}
