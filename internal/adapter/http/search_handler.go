package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"resumeflow/internal/usecase"
	"resumeflow/pkg/scrape"
)

type searchReq struct {
	Keywords       string   `json:"keywords"`
	Location       string   `json:"location"`
	Platforms      []string `json:"platforms"`
	ResultsPerSite int      `json:"results_per_site"`
	HoursOld       int      `json:"hours_old"`
	Resume         string   `json:"resume"`
	RecipientEmail string   `json:"recipient_email"`
	ApplicantName  string   `json:"applicant_name"`
	AutoPipeline   *bool    `json:"auto_pipeline"`
}

// Search scrapes postings and feeds them through the pipeline as a batch. The
// response is immediate; scraping and scoring continue in the background.
func (h *Handler) Search(c *fiber.Ctx) error {
	var req searchReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	if !h.llm.Configured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "LLM not configured; set GOOGLE_API_KEY"})
	}
	if !h.scraper.Configured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "scraper service not configured; set SCRAPER_SERVICE_URL"})
	}

	user := currentUser(c)
	resume := strings.TrimSpace(req.Resume)
	if resume == "" {
		resume = user.ResumeText
	}
	if resume == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no resume on file; upload one or include it in the request"})
	}

	term := scrape.SearchTerm(req.Keywords, resume)
	if term == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "keywords are required"})
	}

	query := scrape.Query{
		Keywords:       term,
		Location:       req.Location,
		Platforms:      req.Platforms,
		ResultsPerSite: req.ResultsPerSite,
		HoursOld:       req.HoursOld,
	}
	if query.Location == "" {
		query.Location = h.defaults.Location
	}
	if query.ResultsPerSite <= 0 {
		query.ResultsPerSite = h.defaults.ResultsPerSite
	}
	if query.HoursOld <= 0 {
		query.HoursOld = h.defaults.HoursOld
	}
	if len(query.Platforms) == 0 {
		query.Platforms = h.defaults.Platforms
	}

	params := usecase.BatchParams{
		UserID:         user.ID,
		Resume:         resume,
		RecipientEmail: req.RecipientEmail,
		ApplicantName:  req.ApplicantName,
		AutoPipeline:   req.AutoPipeline == nil || *req.AutoPipeline,
	}
	if params.RecipientEmail == "" {
		params.RecipientEmail = user.Email
	}
	if params.ApplicantName == "" {
		params.ApplicantName = user.Name
	}

	// The fiber context is recycled once this handler returns, so the
	// goroutine only closes over plain values copied above.
	go func() {
		ctx := context.Background()
		postings, err := h.scraper.Scrape(ctx, query)
		if err != nil {
			h.log.Warn("search scrape failed",
				zap.String("user_id", params.UserID.String()),
				zap.Error(err))
			return
		}
		if len(postings) == 0 {
			h.log.Info("search found no postings",
				zap.String("user_id", params.UserID.String()),
				zap.String("keywords", query.Keywords))
			return
		}
		if _, err := h.batch.Run(ctx, params, postings); err != nil {
			h.log.Warn("batch start failed",
				zap.String("user_id", params.UserID.String()),
				zap.Error(err))
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status":  "started",
		"message": "Search started; results appear under /api/jobs as they are scored",
	})
}
