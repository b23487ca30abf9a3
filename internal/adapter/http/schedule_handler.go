package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"resumeflow/internal/domain"
)

const defaultRunTime = "09:00"

type scheduleReq struct {
	Keywords       string   `json:"keywords"`
	Location       string   `json:"location"`
	Platforms      []string `json:"platforms"`
	ResultsPerSite int      `json:"results_per_site"`
	HoursOld       int      `json:"hours_old"`
	AutoPipeline   *bool    `json:"auto_pipeline"`
	RunTime        string   `json:"run_time"`
	Enabled        *bool    `json:"enabled"`
}

func (h *Handler) GetSchedule(c *fiber.Ctx) error {
	user := currentUser(c)
	sc, err := h.schedules.GetSchedule(c.Context(), user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(nil)
		}
		h.log.Error("get schedule", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load schedule"})
	}
	return c.JSON(sc)
}

func (h *Handler) PutSchedule(c *fiber.Ctx) error {
	var req scheduleReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	req.Keywords = strings.TrimSpace(req.Keywords)
	if req.Keywords == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "keywords are required"})
	}
	if req.RunTime == "" {
		req.RunTime = defaultRunTime
	}
	if _, err := time.Parse("15:04", req.RunTime); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "run_time must be HH:MM (24h)"})
	}
	if req.Location == "" {
		req.Location = h.defaults.Location
	}
	if req.ResultsPerSite <= 0 {
		req.ResultsPerSite = h.defaults.ResultsPerSite
	}
	if req.HoursOld <= 0 {
		req.HoursOld = h.defaults.HoursOld
	}

	user := currentUser(c)
	sc := &domain.Schedule{
		UserID:         user.ID,
		Keywords:       req.Keywords,
		Location:       req.Location,
		Platforms:      req.Platforms,
		ResultsPerSite: req.ResultsPerSite,
		HoursOld:       req.HoursOld,
		AutoPipeline:   req.AutoPipeline == nil || *req.AutoPipeline,
		RunTime:        req.RunTime,
		Enabled:        req.Enabled == nil || *req.Enabled,
	}
	if err := h.scheduler.Upsert(c.Context(), sc); err != nil {
		h.log.Error("upsert schedule", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not store schedule"})
	}
	return c.JSON(sc)
}

func (h *Handler) DeleteSchedule(c *fiber.Ctx) error {
	user := currentUser(c)
	if err := h.scheduler.Delete(c.Context(), user.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No schedule"})
		}
		h.log.Error("delete schedule", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not delete schedule"})
	}
	return c.JSON(fiber.Map{"deleted": true})
}
