package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"resumeflow/internal/domain"
)

const userKey = "user"

// requireAuth verifies the bearer token and loads the user behind it into the
// request locals. Any failure is a plain 401 without detail.
func (h *Handler) requireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	userID, err := h.tokens.Verify(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	user, err := h.users.GetUser(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	c.Locals(userKey, user)
	return c.Next()
}

func currentUser(c *fiber.Ctx) *domain.User {
	return c.Locals(userKey).(*domain.User)
}
