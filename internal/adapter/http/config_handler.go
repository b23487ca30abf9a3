package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"resumeflow/internal/domain"
)

func (h *Handler) GetConfig(c *fiber.Ctx) error {
	user := currentUser(c)
	return c.JSON(fiber.Map{"match_threshold": user.MatchThreshold})
}

func (h *Handler) UpdateConfig(c *fiber.Ctx) error {
	var req struct {
		MatchThreshold *int `json:"match_threshold"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if req.MatchThreshold == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "match_threshold is required"})
	}

	user := currentUser(c)
	threshold := domain.ClampThreshold(*req.MatchThreshold)
	if err := h.users.UpdateMatchThreshold(c.Context(), user.ID, threshold); err != nil {
		h.log.Error("update threshold", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update threshold"})
	}
	return c.JSON(fiber.Map{"match_threshold": threshold})
}
