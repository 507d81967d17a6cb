package handler

import (
	"rag-tutor/internal/dto"
	"rag-tutor/internal/service"

	"github.com/gofiber/fiber/v2"
)

// TutorHandler handles conversational tutoring
type TutorHandler struct {
	tutor service.TutorService
}

func NewTutorHandler(tutor service.TutorService) *TutorHandler {
	return &TutorHandler{tutor: tutor}
}

// Reply godoc
// @Summary Ask the tutor
// @Description Answers a child's message using retrieved syllabus context
// @Tags tutor
// @Accept json
// @Produce json
// @Param request body dto.TutorRequest true "Child message"
// @Success 200 {object} dto.TutorResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /tutor [post]
func (h *TutorHandler) Reply(c *fiber.Ctx) error {
	var req dto.TutorRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.tutor.Reply(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
