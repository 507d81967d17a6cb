package app

import (
	"time"

	"rag-tutor/internal/config"
	"rag-tutor/internal/handler"
	"rag-tutor/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// NewServer builds the fiber app with every route mounted.
func NewServer(cfg *config.Config, c *Container) *fiber.App {
	contentHandler := handler.NewContentHandler(c.Ingest, c.Retrieval)
	quizHandler := handler.NewQuizHandler(c.Quiz, c.Grading)
	tutorHandler := handler.NewTutorHandler(c.Tutor)
	validationMiddleware := middleware.NewValidationMiddleware()

	bodyLimit := cfg.Server.BodyLimitMB * 1024 * 1024
	if bodyLimit <= 0 {
		bodyLimit = fiber.DefaultBodyLimit
	}

	server := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    bodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	server.Use(middleware.RequestLogger())
	server.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       300,
	}))
	server.Use(recover.New())

	server.Get("/swagger/*", swagger.HandlerDefault)
	server.Get("/healthz", func(ctx *fiber.Ctx) error {
		if err := c.Ping(ctx.UserContext()); err != nil {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
		}
		return ctx.JSON(fiber.Map{"status": "ok"})
	})

	api := server.Group("/api")
	api.Post("/ingest", contentHandler.Ingest)
	api.Get("/topics", validationMiddleware.ValidateTopicsQuery(), contentHandler.GetTopics)
	api.Post("/retrieve", contentHandler.Retrieve)
	api.Post("/quiz", quizHandler.GenerateQuiz)
	api.Post("/quiz/submit", quizHandler.SubmitAttempt)
	api.Get("/progress", validationMiddleware.ValidateProgressQuery(), quizHandler.GetProgress)
	api.Post("/tutor", tutorHandler.Reply)

	return server
}
