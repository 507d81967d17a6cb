package service

import (
	"context"
	"fmt"

	"rag-tutor/internal/chunker"
	"rag-tutor/internal/config"
	"rag-tutor/internal/domain"
	"rag-tutor/internal/dto"
	"rag-tutor/internal/logger"
	"rag-tutor/internal/validation"

	"go.uber.org/zap"
)

// IngestService turns raw syllabus text into stored, embedded chunks.
type IngestService interface {
	Ingest(ctx context.Context, req dto.IngestRequest) (*dto.IngestResponse, error)
}

type ingestService struct {
	repo       domain.ContentRepository
	embedder   domain.EmbeddingService
	retrieval  RetrievalService
	validator  *validation.Validator
	maxChars   int
	dimensions int
	logger     *zap.Logger
}

// NewIngestService creates an IngestService. retrieval is used to drop stale
// topic lists and may be nil.
func NewIngestService(
	repo domain.ContentRepository,
	embedder domain.EmbeddingService,
	retrieval RetrievalService,
	cfg *config.Config,
) IngestService {
	return &ingestService{
		repo:       repo,
		embedder:   embedder,
		retrieval:  retrieval,
		validator:  validation.NewValidator(),
		maxChars:   cfg.Chunking.MaxChars,
		dimensions: cfg.Embedding.Dimensions,
		logger:     logger.Named("ingest"),
	}
}

// Ingest chunks the text and stores each chunk in order. A failing chunk is
// recorded and skipped; the call only fails when nothing was stored.
func (s *ingestService) Ingest(ctx context.Context, req dto.IngestRequest) (*dto.IngestResponse, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	source := req.Source
	var file *domain.FileMetadata
	if req.File != nil {
		source = fmt.Sprintf("%s (%s)", req.Source, req.File.Name)
		file = &domain.FileMetadata{URL: req.File.URL, Name: req.File.Name, MimeType: req.File.MimeType}
	}

	chunks := chunker.Chunk(req.Text, s.maxChars)
	resp := &dto.IngestResponse{ChunkCount: len(chunks), Errors: []dto.ChunkError{}}

	var lastErr error
	for i, content := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, domain.NewUpstreamError("ingestion cancelled", err).
				WithContext("insertedCount", resp.InsertedCount)
		}
		if err := s.storeChunk(ctx, req, source, file, i, content); err != nil {
			lastErr = err
			resp.Errors = append(resp.Errors, dto.ChunkError{ChunkIndex: i, Message: err.Error()})
			s.logger.Warn("Chunk ingestion failed",
				zap.String("source", source),
				zap.Int("chunk_index", i),
				zap.Error(err),
			)
			continue
		}
		resp.InsertedCount++
	}

	if resp.InsertedCount == 0 {
		return nil, domain.NewUpstreamError("no chunks could be stored", lastErr).
			WithContext("errors", resp.Errors).
			WithContext("chunkCount", resp.ChunkCount)
	}

	if s.retrieval != nil {
		s.retrieval.InvalidateTopics(ctx, req.Subject, req.Year)
	}

	s.logger.Info("Ingested content",
		zap.String("subject", req.Subject),
		zap.Int("year", req.Year),
		zap.String("source", source),
		zap.Int("inserted", resp.InsertedCount),
		zap.Int("chunks", resp.ChunkCount),
	)
	return resp, nil
}

func (s *ingestService) storeChunk(ctx context.Context, req dto.IngestRequest, source string, file *domain.FileMetadata, index int, content string) error {
	vec, err := s.embedder.Generate(ctx, content)
	if err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}
	if s.dimensions > 0 && len(vec) != s.dimensions {
		return fmt.Errorf("embedding has %d dimensions, expected %d", len(vec), s.dimensions)
	}

	chunk := domain.NewContentChunk(req.Subject, req.Year, source, index, content, vec)
	chunk.FileMetadata = file
	if err := chunk.Validate(); err != nil {
		return err
	}
	if err := s.repo.InsertChunk(ctx, chunk); err != nil {
		return fmt.Errorf("insert failed: %w", err)
	}
	return nil
}
