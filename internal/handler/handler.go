package handler

import (
	"rag-tutor/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// parseBody decodes the JSON body into out. A malformed body is reported as
// a validation error so the error handler renders it as 400.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", err.Error())}
	}
	return nil
}
