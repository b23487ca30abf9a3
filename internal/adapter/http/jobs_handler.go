package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumeflow/internal/domain"
)

func (h *Handler) ListJobs(c *fiber.Ctx) error {
	user := currentUser(c)
	jobs, err := h.jobs.ListJobs(c.Context(), user.ID)
	if err != nil {
		h.log.Error("list jobs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not list jobs"})
	}
	return c.JSON(jobs)
}

func (h *Handler) GetJob(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid job id"})
	}

	user := currentUser(c)
	job, err := h.jobs.GetJob(c.Context(), jobID, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Job not found"})
		}
		h.log.Error("get job", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load job"})
	}
	return c.JSON(job)
}

func (h *Handler) DeleteJob(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid job id"})
	}

	user := currentUser(c)
	if err := h.jobs.DeleteJob(c.Context(), jobID, user.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Job not found"})
		}
		h.log.Error("delete job", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not delete job"})
	}
	return c.JSON(fiber.Map{"deleted": jobID})
}
