package service

import (
	"context"

	"rag-tutor/internal/domain"
	"rag-tutor/internal/dto"
	"rag-tutor/internal/logger"
	"rag-tutor/internal/util"
	"rag-tutor/internal/validation"

	"go.uber.org/zap"
)

// quizContextTopK is how many chunks ground one generated quiz.
const quizContextTopK = 6

// QuizService generates quizzes and lists past attempts.
type QuizService interface {
	GenerateQuiz(ctx context.Context, req dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error)
	ListRecentAttempts(ctx context.Context, req dto.ProgressRequest) (*dto.ProgressResponse, error)
}

type quizService struct {
	retrieval RetrievalService
	generator domain.QuizGenerationService
	attempts  domain.QuizAttemptRepository
	validator *validation.Validator
	logger    *zap.Logger
}

func NewQuizService(
	retrieval RetrievalService,
	generator domain.QuizGenerationService,
	attempts domain.QuizAttemptRepository,
) QuizService {
	return &quizService{
		retrieval: retrieval,
		generator: generator,
		attempts:  attempts,
		validator: validation.NewValidator(),
		logger:    logger.Named("quiz"),
	}
}

// GenerateQuiz grounds a quiz on the topic's chunks and stores an ungraded
// attempt for it.
func (s *quizService) GenerateQuiz(ctx context.Context, req dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}
	req.ApplyDefaults()

	retrieved, err := s.retrieval.Retrieve(ctx, dto.RetrieveRequest{
		Subject:  req.Subject,
		Year:     req.Year,
		Query:    req.Topic,
		TopK:     quizContextTopK,
		TopicKey: req.Topic,
	})
	if err != nil {
		return nil, err
	}

	quiz, err := s.generator.Generate(ctx, req.ToDomain(), retrieved.Results)
	if err != nil {
		s.logger.Warn("Quiz generation failed",
			zap.String("topic", req.Topic),
			zap.Int("year", req.Year),
			zap.Error(err),
		)
		return nil, err
	}
	quiz.Subject = req.Subject
	quiz.Year = req.Year

	attempt := domain.NewQuizAttempt(util.NewULID(), req.ChildID, req.Subject, req.Year, req.Topic, *quiz)
	if err := s.attempts.CreateAttempt(ctx, attempt); err != nil {
		return nil, domain.NewUpstreamError("failed to save quiz attempt", err)
	}

	s.logger.Info("Generated quiz",
		zap.String("attempt_id", attempt.ID),
		zap.String("topic", req.Topic),
		zap.Int("items", len(quiz.Items)),
		zap.Int("context_chunks", len(retrieved.Results)),
	)
	return &dto.GenerateQuizResponse{Quiz: *quiz, AttemptID: attempt.ID}, nil
}

// ListRecentAttempts returns the newest attempts without their quiz payloads.
func (s *quizService) ListRecentAttempts(ctx context.Context, req dto.ProgressRequest) (*dto.ProgressResponse, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}
	limit := req.Limit
	if limit == 0 {
		limit = dto.DefaultProgressSize
	}

	attempts, err := s.attempts.ListRecentAttempts(ctx, limit)
	if err != nil {
		return nil, domain.NewUpstreamError("failed to list attempts", err)
	}

	resp := &dto.ProgressResponse{Attempts: make([]dto.AttemptSummary, 0, len(attempts))}
	for _, a := range attempts {
		resp.Attempts = append(resp.Attempts, dto.NewAttemptSummary(a))
	}
	return resp, nil
}
