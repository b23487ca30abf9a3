package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumeflow/internal/domain"
)

func (h *Handler) ListSaved(c *fiber.Ctx) error {
	user := currentUser(c)
	jobs, err := h.saved.ListSavedJobs(c.Context(), user.ID)
	if err != nil {
		h.log.Error("list saved jobs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not list saved jobs"})
	}
	return c.JSON(jobs)
}

// SaveJob bookmarks an existing job. The lookup doubles as the ownership
// check; saving twice is a no-op.
func (h *Handler) SaveJob(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid job id"})
	}

	user := currentUser(c)
	if _, err := h.jobs.GetJob(c.Context(), jobID, user.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Job not found"})
		}
		h.log.Error("load job for save", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not save job"})
	}
	if err := h.saved.SaveJob(c.Context(), user.ID, jobID); err != nil {
		h.log.Error("save job", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not save job"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"saved": true, "job_id": jobID})
}

func (h *Handler) UnsaveJob(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid job id"})
	}

	user := currentUser(c)
	if err := h.saved.UnsaveJob(c.Context(), user.ID, jobID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not saved"})
		}
		h.log.Error("unsave job", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not remove saved job"})
	}
	return c.JSON(fiber.Map{"saved": false, "job_id": jobID})
}
