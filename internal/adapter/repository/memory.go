package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"resumeflow/internal/domain"
)

// MemoryStore keeps every record in process memory. It backs the service when
// no database is configured, with the obvious caveat that nothing survives a
// restart. All methods are safe for concurrent use and mirror the Postgres
// repositories exactly.
type MemoryStore struct {
	mu        sync.RWMutex
	jobs      map[uuid.UUID]*domain.Job
	jobOrder  []uuid.UUID
	users     map[uuid.UUID]*domain.User
	schedules map[uuid.UUID]*domain.Schedule
	saved     map[uuid.UUID][]uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:      map[uuid.UUID]*domain.Job{},
		users:     map[uuid.UUID]*domain.User{},
		schedules: map[uuid.UUID]*domain.Schedule{},
		saved:     map[uuid.UUID][]uuid.UUID{},
	}
}

func (s *MemoryStore) CreateJob(ctx context.Context, j *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = copyJob(j)
	s.jobOrder = append(s.jobOrder, j.ID)
	return nil
}

func (s *MemoryStore) UpdateJob(ctx context.Context, id uuid.UUID, upd domain.JobUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return domain.ErrNotFound
	}
	j.Apply(upd, time.Now())
	return nil
}

func (s *MemoryStore) GetJob(ctx context.Context, id, userID uuid.UUID) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok || j.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return copyJob(j), nil
}

// ListJobs returns the user's jobs, newest first.
func (s *MemoryStore) ListJobs(ctx context.Context, userID uuid.UUID) ([]domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	jobs := []domain.Job{}
	for i := len(s.jobOrder) - 1; i >= 0; i-- {
		j, ok := s.jobs[s.jobOrder[i]]
		if !ok || j.UserID != userID {
			continue
		}
		jobs = append(jobs, *copyJob(j))
	}
	return jobs, nil
}

func (s *MemoryStore) DeleteJob(ctx context.Context, id, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok || j.UserID != userID {
		return domain.ErrNotFound
	}
	delete(s.jobs, id)
	for i, oid := range s.jobOrder {
		if oid == id {
			s.jobOrder = append(s.jobOrder[:i], s.jobOrder[i+1:]...)
			break
		}
	}
	for uid, ids := range s.saved {
		for i, sid := range ids {
			if sid == id {
				s.saved[uid] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrDuplicateEmail
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *MemoryStore) UpdateMatchThreshold(ctx context.Context, id uuid.UUID, threshold int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.MatchThreshold = threshold
	return nil
}

func (s *MemoryStore) UpdateUserResume(ctx context.Context, id uuid.UUID, text, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.ResumeText = text
	u.ResumeFilename = filename
	return nil
}

func (s *MemoryStore) UpsertSchedule(ctx context.Context, sc *domain.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := copySchedule(sc)
	if existing, ok := s.schedules[sc.UserID]; ok {
		cp.LastRun = existing.LastRun
	}
	s.schedules[sc.UserID] = cp
	return nil
}

func (s *MemoryStore) GetSchedule(ctx context.Context, userID uuid.UUID) (*domain.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.schedules[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copySchedule(sc), nil
}

func (s *MemoryStore) DeleteSchedule(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules[userID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.schedules, userID)
	return nil
}

func (s *MemoryStore) ListEnabledSchedules(ctx context.Context) ([]domain.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var schedules []domain.Schedule
	for _, sc := range s.schedules {
		if sc.Enabled {
			schedules = append(schedules, *copySchedule(sc))
		}
	}
	return schedules, nil
}

func (s *MemoryStore) MarkScheduleRun(ctx context.Context, userID uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.schedules[userID]
	if !ok {
		return domain.ErrNotFound
	}
	sc.LastRun = &at
	return nil
}

func (s *MemoryStore) SaveJob(ctx context.Context, userID, jobID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.saved[userID] {
		if id == jobID {
			return nil
		}
	}
	s.saved[userID] = append(s.saved[userID], jobID)
	return nil
}

func (s *MemoryStore) UnsaveJob(ctx context.Context, userID, jobID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.saved[userID]
	for i, id := range ids {
		if id == jobID {
			s.saved[userID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ListSavedJobs returns the user's bookmarked jobs, newest bookmark first.
// Bookmarks whose job was deleted are dropped.
func (s *MemoryStore) ListSavedJobs(ctx context.Context, userID uuid.UUID) ([]domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.saved[userID]
	jobs := []domain.Job{}
	for i := len(ids) - 1; i >= 0; i-- {
		if j, ok := s.jobs[ids[i]]; ok {
			jobs = append(jobs, *copyJob(j))
		}
	}
	return jobs, nil
}

func copyJob(j *domain.Job) *domain.Job {
	cp := *j
	if j.MissingSkills != nil {
		cp.MissingSkills = append([]string(nil), j.MissingSkills...)
	}
	return &cp
}

func copySchedule(sc *domain.Schedule) *domain.Schedule {
	cp := *sc
	if sc.Platforms != nil {
		cp.Platforms = append([]string(nil), sc.Platforms...)
	}
	if sc.LastRun != nil {
		t := *sc.LastRun
		cp.LastRun = &t
	}
	return &cp
}
