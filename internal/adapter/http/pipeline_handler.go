package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumeflow/internal/domain"
)

type pipelineReq struct {
	JobDescription string `json:"job_description"`
	Resume         string `json:"resume"`
	RecipientEmail string `json:"recipient_email"`
	ApplicantName  string `json:"applicant_name"`
	JobTitle       string `json:"job_title"`
	Company        string `json:"company"`
	JobURL         string `json:"job_url"`
}

// StartPipeline runs the full pipeline for a single pasted job description.
func (h *Handler) StartPipeline(c *fiber.Ctx) error {
	var req pipelineReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	if !h.llm.Configured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "LLM not configured; set GOOGLE_API_KEY"})
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "job_description is required"})
	}

	user := currentUser(c)
	resume := strings.TrimSpace(req.Resume)
	if resume == "" {
		resume = user.ResumeText
	}
	if resume == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no resume on file; upload one or include it in the request"})
	}

	title := strings.TrimSpace(req.JobTitle)
	if title == "" {
		title = "Untitled Role"
	}
	company := strings.TrimSpace(req.Company)
	if company == "" {
		company = "Unknown Company"
	}
	recipient := req.RecipientEmail
	if recipient == "" {
		recipient = user.Email
	}
	applicant := req.ApplicantName
	if applicant == "" {
		applicant = user.Name
	}

	now := time.Now()
	job := &domain.Job{
		ID:             uuid.New(),
		UserID:         user.ID,
		Title:          title,
		Company:        company,
		URL:            req.JobURL,
		Platform:       "manual",
		Resume:         resume,
		JobDescription: req.JobDescription,
		ApplicantName:  applicant,
		RecipientEmail: recipient,
		Status:         domain.StatusQueued,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := h.jobs.CreateJob(c.Context(), job); err != nil {
		h.log.Error("create manual job", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not create job"})
	}

	go func(job *domain.Job) {
		if err := h.runner.Run(context.Background(), job); err != nil {
			h.log.Warn("manual pipeline failed",
				zap.String("job_id", job.ID.String()),
				zap.Error(err))
		}
	}(job)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"job_id":  job.ID,
		"status":  string(domain.StatusQueued),
		"message": "Pipeline started",
	})
}
