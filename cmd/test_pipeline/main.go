package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumeflow/internal/adapter/repository"
	"resumeflow/internal/domain"
	"resumeflow/internal/usecase"
	"resumeflow/pkg/ai"
	"resumeflow/pkg/mail"
)

// Runs the full pipeline against a mock Gemini server and in-memory storage.
// No credentials needed; the email stage degrades to a skipped send, so the
// job should finish as "scored".

const mockAddr = "127.0.0.1:8089"

func startMockGemini(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
			GenerationConfig struct {
				ResponseMimeType string `json:"responseMimeType"`
			} `json:"generationConfig"`
		}
		_ = json.Unmarshal(body, &req)
		prompt := ""
		if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			prompt = req.Contents[0].Parts[0].Text
		}

		var text string
		switch {
		case req.GenerationConfig.ResponseMimeType == "application/json":
			text = `{"match_score": 87, "reasoning": "Strong overlap on Go, Postgres and distributed systems.", "missing_skills": ["Kubernetes"]}`
		case strings.Contains(prompt, "cover letter"):
			text = "Dear Hiring Team,\n\nI build Go services for a living and would love to do it for you.\n\nSincerely,\nTest User"
		default:
			text = "1. Lead with the Go microservices work.\n2. Quantify the pipeline throughput numbers.\n3. Mention Kubernetes exposure from the migration project."
		}

		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("mock gemini server failed: %v", err)
		}
	}()
	return srv
}

func main() {
	srv := startMockGemini(mockAddr)
	defer srv.Shutdown(context.Background())
	time.Sleep(100 * time.Millisecond)

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	store := repository.NewMemoryStore()
	llm := ai.NewClient(ai.Config{
		APIKey:  "test-key",
		BaseURL: "http://" + mockAddr + "/v1beta",
		Logger:  logger,
	})
	// no SMTP credentials on purpose: the send is skipped and the job
	// should land on "scored"
	mailer := mail.NewMailer(mail.Config{Logger: logger})
	pipeline := usecase.NewPipeline(store, store, llm, llm, mailer, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user := &domain.User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		Name:           "Test User",
		MatchThreshold: 75,
	}
	if err := store.CreateUser(ctx, user); err != nil {
		log.Fatalf("create user: %v", err)
	}

	now := time.Now()
	job := &domain.Job{
		ID:             uuid.New(),
		UserID:         user.ID,
		Title:          "Senior Go Engineer",
		Company:        "Initech",
		Platform:       "manual",
		Resume:         "Go engineer. Eight years of services, Postgres, queues and observability.",
		JobDescription: "We need a Go engineer comfortable with Postgres and distributed systems.",
		ApplicantName:  user.Name,
		RecipientEmail: user.Email,
		Status:         domain.StatusQueued,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := store.CreateJob(ctx, job); err != nil {
		log.Fatalf("create job: %v", err)
	}

	if err := pipeline.Run(ctx, job); err != nil {
		fmt.Printf("pipeline failed: %v\n", err)
	}

	final, err := store.GetJob(ctx, job.ID, user.ID)
	if err != nil {
		log.Fatalf("reload job: %v", err)
	}
	out, _ := json.MarshalIndent(final, "", "  ")
	fmt.Printf("final job record:\n%s\n", out)
}
