package middleware

import (
	"strings"

	"rag-tutor/internal/dto"
	"rag-tutor/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Locals keys under which validated query parameters are stored.
const (
	TopicsRequestKey   = "validated_topics_request"
	ProgressRequestKey = "validated_progress_request"
)

// ValidationMiddleware validates query parameters before they reach handlers.
type ValidationMiddleware struct {
	validator *validation.Validator
}

func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateTopicsQuery checks subject and year for GET /topics.
func (vm *ValidationMiddleware) ValidateTopicsQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, errs := vm.validator.ParseIntQuery("year", c.Query("year"), 0)
		if len(errs) > 0 {
			return errs
		}

		req := dto.TopicsRequest{
			Subject: strings.TrimSpace(c.Query("subject")),
			Year:    year,
		}
		if errs := vm.validator.Struct(req); len(errs) > 0 {
			return errs
		}

		c.Locals(TopicsRequestKey, req)
		return c.Next()
	}
}

// ValidateProgressQuery checks the optional limit of GET /progress.
func (vm *ValidationMiddleware) ValidateProgressQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, errs := vm.validator.ParseIntQuery("limit", c.Query("limit"), dto.DefaultProgressSize)
		if len(errs) > 0 {
			return errs
		}

		req := dto.ProgressRequest{Limit: limit}
		if errs := vm.validator.Struct(req); len(errs) > 0 {
			return errs
		}

		c.Locals(ProgressRequestKey, req)
		return c.Next()
	}
}
