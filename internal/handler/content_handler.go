package handler

import (
	"rag-tutor/internal/dto"
	"rag-tutor/internal/logger"
	"rag-tutor/internal/middleware"
	"rag-tutor/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ContentHandler serves syllabus ingestion and retrieval
type ContentHandler struct {
	ingest    service.IngestService
	retrieval service.RetrievalService
}

// NewContentHandler creates a new ContentHandler instance
func NewContentHandler(ingest service.IngestService, retrieval service.RetrievalService) *ContentHandler {
	return &ContentHandler{
		ingest:    ingest,
		retrieval: retrieval,
	}
}

// Ingest godoc
// @Summary Ingest syllabus text
// @Description Chunks the text, embeds every chunk and stores it. Partial failures are reported per chunk.
// @Tags content
// @Accept json
// @Produce json
// @Param request body dto.IngestRequest true "Text to ingest"
// @Success 200 {object} dto.IngestResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /ingest [post]
func (h *ContentHandler) Ingest(c *fiber.Ctx) error {
	var req dto.IngestRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.ingest.Ingest(c.UserContext(), req)
	if err != nil {
		return err
	}

	if len(resp.Errors) > 0 {
		logger.Get().Warn("Ingestion completed with chunk errors",
			zap.String("source", req.Source),
			zap.Int("inserted", resp.InsertedCount),
			zap.Int("failed", len(resp.Errors)),
		)
	}
	return c.JSON(resp)
}

// GetTopics godoc
// @Summary List topics
// @Description Returns the distinct topics derived from ingested sources for a subject and year
// @Tags content
// @Produce json
// @Param subject query string true "Subject"
// @Param year query int true "School year (1-6)"
// @Success 200 {object} dto.TopicsResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /topics [get]
func (h *ContentHandler) GetTopics(c *fiber.Ctx) error {
	req, ok := c.Locals(middleware.TopicsRequestKey).(dto.TopicsRequest)
	if !ok {
		if err := c.QueryParser(&req); err != nil {
			return err
		}
	}

	resp, err := h.retrieval.RetrieveTopics(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Retrieve godoc
// @Summary Similarity search
// @Description Returns the stored chunks closest to the query, optionally narrowed to a topic
// @Tags content
// @Accept json
// @Produce json
// @Param request body dto.RetrieveRequest true "Search parameters"
// @Success 200 {object} dto.RetrieveResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /retrieve [post]
func (h *ContentHandler) Retrieve(c *fiber.Ctx) error {
	var req dto.RetrieveRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.retrieval.Retrieve(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
