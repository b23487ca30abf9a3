package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// maxUploadBytes bounds the whole request body. Resumes are capped at 5MB;
// the extra headroom covers multipart framing.
const maxUploadBytes = 6 << 20

// NewApp builds the fiber application with middleware and every route bound.
func NewApp(h *Handler, frontendURL string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "ResumeFlow AI",
		BodyLimit: maxUploadBytes,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: frontendURL,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))
	app.Use(h.requestLogger)

	app.Get("/", h.Root)
	app.Get("/health", h.Health)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", h.Register)
	authGroup.Post("/login", h.Login)
	authGroup.Get("/me", h.requireAuth, h.Me)

	user := api.Group("/user", h.requireAuth)
	user.Get("/me", h.Profile)
	user.Post("/resume", h.UploadResume)
	user.Get("/resume", h.GetResume)

	api.Get("/config", h.requireAuth, h.GetConfig)
	api.Patch("/config", h.requireAuth, h.UpdateConfig)

	api.Post("/score", h.requireAuth, h.Score)
	api.Post("/tailor", h.requireAuth, h.TailorDocs)
	api.Post("/send-email", h.requireAuth, h.SendEmail)

	api.Post("/search", h.requireAuth, h.Search)
	api.Post("/pipeline", h.requireAuth, h.StartPipeline)

	jobs := api.Group("/jobs", h.requireAuth)
	jobs.Get("/", h.ListJobs)
	jobs.Get("/:job_id", h.GetJob)
	jobs.Delete("/:job_id", h.DeleteJob)

	saved := api.Group("/saved", h.requireAuth)
	saved.Get("/", h.ListSaved)
	saved.Post("/:job_id", h.SaveJob)
	saved.Delete("/:job_id", h.UnsaveJob)

	sched := api.Group("/schedule", h.requireAuth)
	sched.Get("/", h.GetSchedule)
	sched.Put("/", h.PutSchedule)
	sched.Delete("/", h.DeleteSchedule)

	return app
}

func (h *Handler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "ResumeFlow AI",
		"status":  "running",
	})
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	h.log.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("took", time.Since(start)))
	return err
}
