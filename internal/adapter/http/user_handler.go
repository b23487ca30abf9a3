package http

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"resumeflow/pkg/extract"
)

// maxResumeBytes caps uploaded resume files at 5MB.
const maxResumeBytes = 5 << 20

var allowedResumeExts = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".md":   true,
	".docx": true,
}

func (h *Handler) Profile(c *fiber.Ctx) error {
	user := currentUser(c)
	return c.JSON(fiber.Map{
		"id":              user.ID,
		"email":           user.Email,
		"name":            user.Name,
		"match_threshold": user.MatchThreshold,
		"has_resume":      user.HasResume(),
		"resume_filename": user.ResumeFilename,
	})
}

func (h *Handler) UploadResume(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "resume file is required"})
	}
	if fh.Size > maxResumeBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "resume file exceeds the 5MB limit"})
	}
	if ext := strings.ToLower(filepath.Ext(fh.Filename)); !allowedResumeExts[ext] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unsupported format; upload pdf, txt, md or docx"})
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not read upload"})
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not read upload"})
	}

	text, err := extract.Text(fh.Filename, data)
	if err != nil {
		h.log.Warn("resume extraction failed", zap.String("filename", fh.Filename), zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "could not extract text from resume"})
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "resume appears to be empty"})
	}

	user := currentUser(c)
	if err := h.users.UpdateUserResume(c.Context(), user.ID, text, fh.Filename); err != nil {
		h.log.Error("store resume", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not store resume"})
	}

	return c.JSON(fiber.Map{
		"filename":   fh.Filename,
		"characters": len(text),
		"message":    "Resume stored",
	})
}

func (h *Handler) GetResume(c *fiber.Ctx) error {
	user := currentUser(c)
	if !user.HasResume() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No resume uploaded"})
	}
	return c.JSON(fiber.Map{
		"filename": user.ResumeFilename,
		"text":     user.ResumeText,
	})
}
