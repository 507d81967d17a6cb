package middleware

import (
	"errors"
	"net/http"

	"rag-tutor/internal/domain"
	"rag-tutor/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse lists the offending request fields.
type ValidationErrorResponse struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Status  int                      `json:"status"`
	Errors  []domain.ValidationError `json:"errors"`
}

var statusByCode = map[domain.ErrorCode]int{
	domain.CodeValidation:     http.StatusBadRequest,
	domain.CodeNotFound:       http.StatusNotFound,
	domain.CodeInvalidAttempt: http.StatusConflict,
	domain.CodeGeneration:     http.StatusUnprocessableEntity,
	domain.CodeUpstream:       http.StatusBadGateway,
	domain.CodeInternal:       http.StatusInternalServerError,
}

// ErrorHandler renders handler errors as JSON. Install it through
// fiber.Config.ErrorHandler.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			fieldErrs domain.ValidationErrors
			domainErr *domain.DomainError
			fiberErr  *fiber.Error
		)
		switch {
		case errors.As(err, &fieldErrs):
			return writeFieldErrors(c, fieldErrs)
		case errors.As(err, &domainErr):
			return writeDomainError(c, domainErr)
		case errors.As(err, &fiberErr):
			logger.Get().Warn("Request rejected by router",
				zap.String("path", c.Path()),
				zap.Int("status", fiberErr.Code),
				zap.String("reason", fiberErr.Message),
			)
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Code:    "HTTP_ERROR",
				Message: fiberErr.Message,
				Status:  fiberErr.Code,
			})
		default:
			logger.Get().Error("Unhandled error",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Code:    string(domain.CodeInternal),
				Message: "Something went wrong",
				Status:  http.StatusInternalServerError,
			})
		}
	}
}

func writeFieldErrors(c *fiber.Ctx, errs domain.ValidationErrors) error {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	logger.Get().Info("Invalid request",
		zap.String("path", c.Path()),
		zap.Strings("fields", fields),
	)
	return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
		Code:    string(domain.CodeValidation),
		Message: "One or more fields are invalid",
		Status:  http.StatusBadRequest,
		Errors:  errs,
	})
}

func writeDomainError(c *fiber.Ctx, de *domain.DomainError) error {
	status := statusForCode(de.Code)

	log := logger.Get().With(
		zap.String("path", c.Path()),
		zap.String("code", string(de.Code)),
		zap.Int("status", status),
	)
	if status >= http.StatusInternalServerError {
		log.Error(de.Message, zap.Error(de.Cause))
	} else {
		log.Warn(de.Message, zap.Error(de.Cause))
	}

	resp := ErrorResponse{
		Code:    string(de.Code),
		Message: de.Message,
		Status:  status,
	}
	if len(de.Context) > 0 {
		resp.Details = de.Context
	}
	return c.Status(status).JSON(resp)
}

func statusForCode(code domain.ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
