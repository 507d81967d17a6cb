package handler

import (
	"rag-tutor/internal/dto"
	"rag-tutor/internal/logger"
	"rag-tutor/internal/middleware"
	"rag-tutor/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz generation, grading and progress
type QuizHandler struct {
	quizzes service.QuizService
	grading service.GradingService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(quizzes service.QuizService, grading service.GradingService) *QuizHandler {
	return &QuizHandler{
		quizzes: quizzes,
		grading: grading,
	}
}

// GenerateQuiz godoc
// @Summary Generate a quiz
// @Description Generates a quiz grounded in retrieved syllabus content and records an ungraded attempt
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Quiz parameters"
// @Success 200 {object} dto.GenerateQuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /quiz [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.quizzes.GenerateQuiz(c.UserContext(), req)
	if err != nil {
		return err
	}

	logger.Get().Info("Quiz generated",
		zap.String("attempt_id", resp.AttemptID),
		zap.String("child_id", req.ChildID),
		zap.Int("items", len(resp.Quiz.Items)),
	)
	return c.JSON(resp)
}

// SubmitAttempt godoc
// @Summary Submit answers
// @Description Grades the answers of an attempt and stores the score. Re-submitting overwrites the previous score.
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.SubmitAttemptRequest true "Answers keyed by item id"
// @Success 200 {object} dto.SubmitAttemptResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /quiz/submit [post]
func (h *QuizHandler) SubmitAttempt(c *fiber.Ctx) error {
	var req dto.SubmitAttemptRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.grading.SubmitAttempt(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetProgress godoc
// @Summary Recent attempts
// @Description Lists the most recent quiz attempts, newest first
// @Tags quiz
// @Produce json
// @Param limit query int false "Maximum rows (1-100, default 30)"
// @Success 200 {object} dto.ProgressResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /progress [get]
func (h *QuizHandler) GetProgress(c *fiber.Ctx) error {
	req, ok := c.Locals(middleware.ProgressRequestKey).(dto.ProgressRequest)
	if !ok {
		if err := c.QueryParser(&req); err != nil {
			return err
		}
	}

	resp, err := h.quizzes.ListRecentAttempts(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
