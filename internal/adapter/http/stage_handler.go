package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"resumeflow/pkg/ai"
	"resumeflow/pkg/mail"
)

// Score runs the scoring stage directly, outside any job record.
func (h *Handler) Score(c *fiber.Ctx) error {
	if !h.llm.Configured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "LLM not configured; set GOOGLE_API_KEY"})
	}

	var req struct {
		Resume         string `json:"resume"`
		JobDescription string `json:"job_description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if strings.TrimSpace(req.Resume) == "" || strings.TrimSpace(req.JobDescription) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "resume and job_description are required"})
	}

	result, err := h.llm.ScoreResume(c.Context(), req.Resume, req.JobDescription)
	if err != nil {
		h.log.Warn("direct scoring failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "scoring failed"})
	}
	return c.JSON(result)
}

// TailorDocs runs the tailoring stage directly.
func (h *Handler) TailorDocs(c *fiber.Ctx) error {
	if !h.llm.Configured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "LLM not configured; set GOOGLE_API_KEY"})
	}

	var req struct {
		Resume         string   `json:"resume"`
		JobDescription string   `json:"job_description"`
		MissingSkills  []string `json:"missing_skills"`
		ApplicantName  string   `json:"applicant_name"`
		JobTitle       string   `json:"job_title"`
		Company        string   `json:"company"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if strings.TrimSpace(req.Resume) == "" || strings.TrimSpace(req.JobDescription) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "resume and job_description are required"})
	}

	result, err := h.llm.TailorDocuments(c.Context(), ai.TailorRequest{
		Resume:         req.Resume,
		JobDescription: req.JobDescription,
		MissingSkills:  req.MissingSkills,
		ApplicantName:  req.ApplicantName,
		JobTitle:       req.JobTitle,
		Company:        req.Company,
	})
	if err != nil {
		h.log.Warn("direct tailoring failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "tailoring failed"})
	}
	return c.JSON(result)
}

// SendEmail sends a match notification directly. Unlike the pipeline, which
// degrades to a skipped send, the direct call fails loudly when SMTP
// credentials are missing.
func (h *Handler) SendEmail(c *fiber.Ctx) error {
	if !h.mailer.Configured() {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "SMTP credentials not configured"})
	}

	var req struct {
		RecipientEmail string `json:"recipient_email"`
		ApplicantName  string `json:"applicant_name"`
		JobTitle       string `json:"job_title"`
		Company        string `json:"company"`
		JobURL         string `json:"job_url"`
		MatchScore     int    `json:"match_score"`
		Suggestions    string `json:"suggestions"`
		CoverLetter    string `json:"cover_letter"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if strings.TrimSpace(req.RecipientEmail) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "recipient_email is required"})
	}

	result, err := h.mailer.SendMatchEmail(c.Context(), mail.MatchEmail{
		Recipient:     req.RecipientEmail,
		ApplicantName: req.ApplicantName,
		JobTitle:      req.JobTitle,
		Company:       req.Company,
		JobURL:        req.JobURL,
		MatchScore:    req.MatchScore,
		Suggestions:   req.Suggestions,
		CoverLetter:   req.CoverLetter,
	})
	if err != nil {
		if errors.Is(err, mail.ErrAuth) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "SMTP authentication failed; check SMTP_EMAIL and SMTP_PASSWORD"})
		}
		h.log.Warn("direct send failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "email send failed"})
	}
	return c.JSON(result)
}
