package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resumeflow/internal/adapter/repository"
	"resumeflow/internal/auth"
	"resumeflow/internal/config"
	"resumeflow/internal/domain"
	"resumeflow/internal/schedule"
	"resumeflow/internal/usecase"
	"resumeflow/pkg/ai"
	"resumeflow/pkg/mail"
	"resumeflow/pkg/scrape"
)

type stubAI struct {
	configured bool
	score      *ai.ScoreResult
	scoreErr   error
	tailor     *ai.TailorResult
	tailorErr  error
}

func (s *stubAI) Configured() bool { return s.configured }

func (s *stubAI) ScoreResume(ctx context.Context, resume, jobDescription string) (*ai.ScoreResult, error) {
	return s.score, s.scoreErr
}

func (s *stubAI) TailorDocuments(ctx context.Context, req ai.TailorRequest) (*ai.TailorResult, error) {
	return s.tailor, s.tailorErr
}

type stubScraper struct {
	configured bool
	postings   []scrape.Posting
	err        error
	queries    chan scrape.Query
}

func (s *stubScraper) Configured() bool { return s.configured }

func (s *stubScraper) Scrape(ctx context.Context, q scrape.Query) ([]scrape.Posting, error) {
	if s.queries != nil {
		s.queries <- q
	}
	return s.postings, s.err
}

type stubMailer struct {
	configured bool
	result     *mail.SendResult
	err        error
}

func (s *stubMailer) Configured() bool { return s.configured }

func (s *stubMailer) SendMatchEmail(ctx context.Context, em mail.MatchEmail) (*mail.SendResult, error) {
	return s.result, s.err
}

type batchCall struct {
	params   usecase.BatchParams
	postings []scrape.Posting
}

type stubBatch struct {
	calls chan batchCall
}

func (s *stubBatch) Run(ctx context.Context, params usecase.BatchParams, postings []scrape.Posting) ([]*usecase.JobHandle, error) {
	s.calls <- batchCall{params: params, postings: postings}
	return nil, nil
}

type stubRunner struct {
	jobs chan *domain.Job
}

func (s *stubRunner) Run(ctx context.Context, job *domain.Job) error {
	s.jobs <- job
	return nil
}

func (s *stubRunner) ScoreOnly(ctx context.Context, job *domain.Job) error {
	s.jobs <- job
	return nil
}

type fakeRegistry struct {
	mu      sync.Mutex
	entries map[string]string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{entries: map[string]string{}}
}

func (r *fakeRegistry) Register(id, spec string, fn func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = spec
	return nil
}

func (r *fakeRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

func (r *fakeRegistry) spec(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.entries[id]
	return s, ok
}

type testEnv struct {
	app      *fiber.App
	store    *repository.MemoryStore
	llm      *stubAI
	scraper  *stubScraper
	mailer   *stubMailer
	batch    *stubBatch
	runner   *stubRunner
	registry *fakeRegistry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store: repository.NewMemoryStore(),
		llm: &stubAI{
			configured: true,
			score:      &ai.ScoreResult{MatchScore: 82, Reasoning: "solid overlap", MissingSkills: []string{"Kafka"}},
			tailor:     &ai.TailorResult{ResumeSuggestions: "1. Lead with Go", CoverLetter: "Dear Team,"},
		},
		scraper:  &stubScraper{configured: true, queries: make(chan scrape.Query, 4)},
		mailer:   &stubMailer{configured: true, result: &mail.SendResult{Status: mail.StatusSent, Recipient: "x@y.z"}},
		batch:    &stubBatch{calls: make(chan batchCall, 4)},
		runner:   &stubRunner{jobs: make(chan *domain.Job, 4)},
		registry: newFakeRegistry(),
	}

	scheduler := schedule.NewService(env.store, env.store, nil, nil, env.registry, zap.NewNop())
	handler := NewHandler(Deps{
		Users:     env.store,
		Jobs:      env.store,
		Saved:     env.store,
		Schedules: env.store,
		Scheduler: scheduler,
		LLM:       env.llm,
		Scraper:   env.scraper,
		Mailer:    env.mailer,
		Batch:     env.batch,
		Runner:    env.runner,
		Tokens:    auth.NewTokenIssuer("test-secret", time.Hour),
		Defaults: config.SearchDefaults{
			Location:       "Remote",
			Platforms:      []string{"indeed", "linkedin", "glassdoor", "zip_recruiter"},
			ResultsPerSite: 10,
			HoursOld:       72,
		},
		Log: zap.NewNop(),
	})
	env.app = NewApp(handler, "http://localhost:5173")
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *nethttp.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *nethttp.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, v), "body: %s", b)
}

func (e *testEnv) register(t *testing.T, email, name string) (string, uuid.UUID) {
	t.Helper()
	resp := e.do(t, "POST", "/api/auth/register", "", fiber.Map{
		"email":    email,
		"password": "password123",
		"name":     name,
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	var tok tokenResponse
	decodeBody(t, resp, &tok)
	return tok.AccessToken, tok.UserID
}

func (e *testEnv) seedJob(t *testing.T, userID uuid.UUID, title string) *domain.Job {
	t.Helper()
	now := time.Now()
	job := &domain.Job{
		ID:             uuid.New(),
		UserID:         userID,
		Title:          title,
		Company:        "Initech",
		Platform:       "indeed",
		Resume:         "resume",
		JobDescription: "desc",
		Status:         domain.StatusQueued,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, e.store.CreateJob(context.Background(), job))
	return job
}

func TestRegisterLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	token, userID := env.register(t, "sam@example.com", "Sam Carter")
	require.NotEmpty(t, token)
	require.NotEqual(t, uuid.Nil, userID)

	resp := env.do(t, "POST", "/api/auth/register", "", fiber.Map{
		"email": "sam@example.com", "password": "password123", "name": "Sam Again",
	})
	assert.Equal(t, nethttp.StatusConflict, resp.StatusCode)

	resp = env.do(t, "POST", "/api/auth/login", "", fiber.Map{
		"email": "SAM@example.com", "password": "password123",
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var tok tokenResponse
	decodeBody(t, resp, &tok)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.Equal(t, userID, tok.UserID)

	resp = env.do(t, "POST", "/api/auth/login", "", fiber.Map{
		"email": "sam@example.com", "password": "wrong-password",
	})
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, "GET", "/api/auth/me", tok.AccessToken, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var me map[string]any
	decodeBody(t, resp, &me)
	assert.Equal(t, "sam@example.com", me["email"])
	assert.Equal(t, "Sam Carter", me["name"])
	assert.EqualValues(t, domain.DefaultMatchThreshold, me["match_threshold"])
	assert.Equal(t, false, me["has_resume"])

	resp = env.do(t, "GET", "/api/auth/me", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	resp = env.do(t, "GET", "/api/auth/me", "not-a-token", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []fiber.Map{
		{"email": "not-an-email", "password": "password123", "name": "Sam"},
		{"email": "sam@example.com", "password": "short", "name": "Sam"},
		{"email": "sam@example.com", "password": "password123", "name": "  "},
	}
	for _, body := range cases {
		resp := env.do(t, "POST", "/api/auth/register", "", body)
		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	}
}

func TestConfigEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "sam@example.com", "Sam")

	resp := env.do(t, "GET", "/api/config", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var cfg map[string]int
	decodeBody(t, resp, &cfg)
	assert.Equal(t, domain.DefaultMatchThreshold, cfg["match_threshold"])

	resp = env.do(t, "PATCH", "/api/config", token, fiber.Map{"match_threshold": 150})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cfg)
	assert.Equal(t, 100, cfg["match_threshold"], "threshold is clamped")

	resp = env.do(t, "GET", "/api/config", token, nil)
	decodeBody(t, resp, &cfg)
	assert.Equal(t, 100, cfg["match_threshold"])

	resp = env.do(t, "PATCH", "/api/config", token, fiber.Map{})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func (e *testEnv) uploadResume(t *testing.T, token, filename string, content []byte) *nethttp.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/user/resume", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestResumeUploadFlow(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "sam@example.com", "Sam")

	resp := env.do(t, "GET", "/api/user/resume", token, nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)

	resp = env.uploadResume(t, token, "resume.txt", []byte("Go engineer, ten years of services."))
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var up map[string]any
	decodeBody(t, resp, &up)
	assert.Equal(t, "resume.txt", up["filename"])
	assert.EqualValues(t, 35, up["characters"])

	resp = env.do(t, "GET", "/api/user/resume", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var stored map[string]string
	decodeBody(t, resp, &stored)
	assert.Equal(t, "Go engineer, ten years of services.", stored["text"])

	resp = env.do(t, "GET", "/api/user/me", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var profile map[string]any
	decodeBody(t, resp, &profile)
	assert.Equal(t, true, profile["has_resume"])
	assert.Equal(t, "resume.txt", profile["resume_filename"])

	resp = env.uploadResume(t, token, "resume.exe", []byte("binary"))
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp = env.uploadResume(t, token, "empty.txt", []byte("   \n  "))
	assert.Equal(t, nethttp.StatusUnprocessableEntity, resp.StatusCode)
}

func TestJobsEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.register(t, "sam@example.com", "Sam")
	otherToken, _ := env.register(t, "eve@example.com", "Eve")

	first := env.seedJob(t, userID, "Backend Engineer")
	second := env.seedJob(t, userID, "Platform Engineer")

	resp := env.do(t, "GET", "/api/jobs", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var jobs []domain.Job
	decodeBody(t, resp, &jobs)
	require.Len(t, jobs, 2)
	assert.Equal(t, second.ID, jobs[0].ID, "newest first")
	assert.Equal(t, first.ID, jobs[1].ID)

	resp = env.do(t, "GET", "/api/jobs/"+first.ID.String(), token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var job domain.Job
	decodeBody(t, resp, &job)
	assert.Equal(t, "Backend Engineer", job.Title)

	resp = env.do(t, "GET", "/api/jobs/"+first.ID.String(), otherToken, nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)

	resp = env.do(t, "GET", "/api/jobs/not-a-uuid", token, nil)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, "DELETE", "/api/jobs/"+first.ID.String(), token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	resp = env.do(t, "DELETE", "/api/jobs/"+first.ID.String(), token, nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestSavedEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.register(t, "sam@example.com", "Sam")
	job := env.seedJob(t, userID, "Backend Engineer")

	resp := env.do(t, "POST", "/api/saved/"+job.ID.String(), token, nil)
	assert.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	resp = env.do(t, "POST", "/api/saved/"+job.ID.String(), token, nil)
	assert.Equal(t, nethttp.StatusCreated, resp.StatusCode, "saving twice is fine")

	resp = env.do(t, "GET", "/api/saved", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var jobs []domain.Job
	decodeBody(t, resp, &jobs)
	require.Len(t, jobs, 1)
	assert.Equal(t, job.ID, jobs[0].ID)

	resp = env.do(t, "POST", "/api/saved/"+uuid.NewString(), token, nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)

	resp = env.do(t, "DELETE", "/api/saved/"+job.ID.String(), token, nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	resp = env.do(t, "DELETE", "/api/saved/"+job.ID.String(), token, nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestScheduleEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.register(t, "sam@example.com", "Sam")

	resp := env.do(t, "GET", "/api/schedule", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "null", string(bytes.TrimSpace(b)))

	resp = env.do(t, "PUT", "/api/schedule", token, fiber.Map{"keywords": "golang backend"})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var sc domain.Schedule
	decodeBody(t, resp, &sc)
	assert.Equal(t, "golang backend", sc.Keywords)
	assert.Equal(t, "Remote", sc.Location)
	assert.Equal(t, "09:00", sc.RunTime)
	assert.Equal(t, 10, sc.ResultsPerSite)
	assert.Equal(t, 72, sc.HoursOld)
	assert.True(t, sc.AutoPipeline)
	assert.True(t, sc.Enabled)

	spec, ok := env.registry.spec(userID.String())
	require.True(t, ok, "enabled schedule registers a trigger")
	assert.Equal(t, "0 9 * * *", spec)

	resp = env.do(t, "PUT", "/api/schedule", token, fiber.Map{
		"keywords": "golang backend", "enabled": false,
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	_, ok = env.registry.spec(userID.String())
	assert.False(t, ok, "disabling drops the trigger")

	resp = env.do(t, "PUT", "/api/schedule", token, fiber.Map{
		"keywords": "golang", "run_time": "9am",
	})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, "PUT", "/api/schedule", token, fiber.Map{"keywords": "  "})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, "DELETE", "/api/schedule", token, nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	resp = env.do(t, "DELETE", "/api/schedule", token, nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestScoreEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "sam@example.com", "Sam")

	resp := env.do(t, "POST", "/api/score", token, fiber.Map{"resume": "Go dev"})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, "POST", "/api/score", token, fiber.Map{
		"resume": "Go dev", "job_description": "Go role",
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var score ai.ScoreResult
	decodeBody(t, resp, &score)
	assert.Equal(t, 82, score.MatchScore)
	assert.Equal(t, []string{"Kafka"}, score.MissingSkills)

	env.llm.configured = false
	resp = env.do(t, "POST", "/api/score", token, fiber.Map{
		"resume": "Go dev", "job_description": "Go role",
	})
	assert.Equal(t, nethttp.StatusServiceUnavailable, resp.StatusCode)
}

func TestTailorEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "sam@example.com", "Sam")

	resp := env.do(t, "POST", "/api/tailor", token, fiber.Map{
		"resume":          "Go dev",
		"job_description": "Go role",
		"missing_skills":  []string{"Kafka"},
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var res ai.TailorResult
	decodeBody(t, resp, &res)
	assert.Equal(t, "1. Lead with Go", res.ResumeSuggestions)
	assert.Equal(t, "Dear Team,", res.CoverLetter)
}

func TestSendEmailEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "sam@example.com", "Sam")

	body := fiber.Map{
		"recipient_email": "sam@example.com",
		"job_title":       "Backend Engineer",
		"company":         "Initech",
		"match_score":     82,
	}

	resp := env.do(t, "POST", "/api/send-email", token, body)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var result mail.SendResult
	decodeBody(t, resp, &result)
	assert.Equal(t, mail.StatusSent, result.Status)

	env.mailer.err = fmt.Errorf("%w: 535 bad credentials", mail.ErrAuth)
	resp = env.do(t, "POST", "/api/send-email", token, body)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	env.mailer.configured = false
	resp = env.do(t, "POST", "/api/send-email", token, body)
	assert.Equal(t, nethttp.StatusInternalServerError, resp.StatusCode)

	resp = env.do(t, "POST", "/api/send-email", token, fiber.Map{"job_title": "x"})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestSearchEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.register(t, "sam@example.com", "Sam Carter")

	resp := env.do(t, "POST", "/api/search", token, fiber.Map{"keywords": ""})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode, "no resume anywhere")

	up := env.uploadResume(t, token, "resume.txt", []byte("Senior Go engineer, distributed systems."))
	require.Equal(t, nethttp.StatusOK, up.StatusCode)

	env.scraper.postings = []scrape.Posting{
		{Title: "Backend Engineer", Company: "Initech", Platform: "indeed", Description: "Go services"},
		{Title: "Platform Engineer", Company: "Globex", Platform: "linkedin", Description: "Go infra"},
	}

	resp = env.do(t, "POST", "/api/search", token, fiber.Map{"keywords": "golang remote"})
	require.Equal(t, nethttp.StatusAccepted, resp.StatusCode)

	select {
	case q := <-env.scraper.queries:
		assert.Equal(t, "golang remote", q.Keywords)
		assert.Equal(t, "Remote", q.Location)
		assert.Equal(t, 10, q.ResultsPerSite)
		assert.Equal(t, 72, q.HoursOld)
		assert.Len(t, q.Platforms, 4)
	case <-time.After(2 * time.Second):
		t.Fatal("scraper was never called")
	}

	select {
	case call := <-env.batch.calls:
		assert.Equal(t, userID, call.params.UserID)
		assert.Equal(t, "Senior Go engineer, distributed systems.", call.params.Resume)
		assert.Equal(t, "sam@example.com", call.params.RecipientEmail)
		assert.Equal(t, "Sam Carter", call.params.ApplicantName)
		assert.True(t, call.params.AutoPipeline)
		assert.Len(t, call.postings, 2)
	case <-time.After(2 * time.Second):
		t.Fatal("batch was never started")
	}

	env.llm.configured = false
	resp = env.do(t, "POST", "/api/search", token, fiber.Map{"keywords": "golang"})
	assert.Equal(t, nethttp.StatusServiceUnavailable, resp.StatusCode)
	env.llm.configured = true

	env.scraper.configured = false
	resp = env.do(t, "POST", "/api/search", token, fiber.Map{"keywords": "golang"})
	assert.Equal(t, nethttp.StatusServiceUnavailable, resp.StatusCode)
}

func TestSearchFallsBackToResumeKeywords(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "sam@example.com", "Sam")

	resume := "Senior Go engineer who builds distributed schedulers and humane infrastructure tooling"
	resp := env.do(t, "POST", "/api/search", token, fiber.Map{"resume": resume})
	require.Equal(t, nethttp.StatusAccepted, resp.StatusCode)

	select {
	case q := <-env.scraper.queries:
		assert.Equal(t, scrape.SearchTerm("", resume), q.Keywords)
	case <-time.After(2 * time.Second):
		t.Fatal("scraper was never called")
	}
}

func TestPipelineEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.register(t, "sam@example.com", "Sam Carter")

	resp := env.do(t, "POST", "/api/pipeline", token, fiber.Map{"job_description": "Go role"})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode, "no resume anywhere")

	up := env.uploadResume(t, token, "resume.txt", []byte("Senior Go engineer."))
	require.Equal(t, nethttp.StatusOK, up.StatusCode)

	resp = env.do(t, "POST", "/api/pipeline", token, fiber.Map{
		"job_description": "Looking for a Go engineer.",
		"job_title":       "Backend Engineer",
		"company":         "Initech",
	})
	require.Equal(t, nethttp.StatusAccepted, resp.StatusCode)
	var started map[string]any
	decodeBody(t, resp, &started)
	assert.Equal(t, "queued", started["status"])
	jobID, err := uuid.Parse(started["job_id"].(string))
	require.NoError(t, err)

	select {
	case job := <-env.runner.jobs:
		assert.Equal(t, jobID, job.ID)
		assert.Equal(t, userID, job.UserID)
		assert.Equal(t, "Backend Engineer", job.Title)
		assert.Equal(t, "manual", job.Platform)
		assert.Equal(t, "Senior Go engineer.", job.Resume)
		assert.Equal(t, "sam@example.com", job.RecipientEmail)
		assert.Equal(t, "Sam Carter", job.ApplicantName)
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline was never started")
	}

	record, err := env.store.GetJob(context.Background(), jobID, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusQueued, record.Status)

	resp = env.do(t, "POST", "/api/pipeline", token, fiber.Map{"resume": "r"})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode, "job_description is required")
}

func TestHealthAndRoot(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, "GET", "/health", "", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var health map[string]string
	decodeBody(t, resp, &health)
	assert.Equal(t, "ok", health["status"])

	resp = env.do(t, "GET", "/", "", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var root map[string]string
	decodeBody(t, resp, &root)
	assert.Equal(t, "ResumeFlow AI", root["service"])
}
