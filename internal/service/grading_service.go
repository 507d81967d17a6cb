package service

import (
	"context"

	"rag-tutor/internal/config"
	"rag-tutor/internal/domain"
	"rag-tutor/internal/dto"
	"rag-tutor/internal/logger"
	"rag-tutor/internal/util"
	"rag-tutor/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultGradingConcurrency = 4

// GradingService scores submitted answers against a stored attempt.
type GradingService interface {
	SubmitAttempt(ctx context.Context, req dto.SubmitAttemptRequest) (*dto.SubmitAttemptResponse, error)
}

type gradingService struct {
	attempts    domain.QuizAttemptRepository
	judge       domain.AnswerJudge
	validator   *validation.Validator
	concurrency int
	logger      *zap.Logger
}

func NewGradingService(attempts domain.QuizAttemptRepository, judge domain.AnswerJudge, cfg *config.Config) GradingService {
	n := cfg.Grading.Concurrency
	if n <= 0 {
		n = defaultGradingConcurrency
	}
	return &gradingService{
		attempts:    attempts,
		judge:       judge,
		validator:   validation.NewValidator(),
		concurrency: n,
		logger:      logger.Named("grading"),
	}
}

// SubmitAttempt judges every item, then overwrites the attempt's score.
// Items without a submitted answer are judged against "".
func (s *gradingService) SubmitAttempt(ctx context.Context, req dto.SubmitAttemptRequest) (*dto.SubmitAttemptResponse, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	attempt, err := s.attempts.GetAttemptByID(ctx, req.AttemptID)
	if err != nil {
		return nil, domain.NewUpstreamError("failed to load quiz attempt", err)
	}
	if attempt == nil {
		return nil, domain.NewNotFoundError("quiz attempt not found").WithContext("attemptId", req.AttemptID)
	}
	items := attempt.Payload.Items
	if len(items) == 0 {
		return nil, domain.NewInvalidAttemptError("quiz attempt has no items").WithContext("attemptId", req.AttemptID)
	}

	results := make([]domain.GradingResult, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			answer := req.Answers[item.ID]
			results[i] = domain.GradingResult{
				ID:            item.ID,
				Type:          item.Type,
				Question:      item.Question,
				UserAnswer:    answer,
				CorrectAnswer: item.Answer,
				IsCorrect:     s.judge.Judge(gctx, item, answer),
				Feedback:      item.Explanation,
			}
			return nil
		})
	}
	// Judges never fail, so Wait only synchronises.
	_ = g.Wait()

	score := 0
	for _, r := range results {
		if r.IsCorrect {
			score++
		}
	}
	total := len(items)

	if err := s.attempts.UpdateAttemptScore(ctx, attempt.ID, score, total); err != nil {
		return nil, domain.NewUpstreamError("failed to save attempt score", err)
	}

	s.logger.Info("Graded attempt",
		zap.String("attempt_id", attempt.ID),
		zap.Int("score", score),
		zap.Int("total", total),
	)
	return &dto.SubmitAttemptResponse{
		Score:      score,
		Total:      total,
		Percentage: util.Percentage(score, total),
		Results:    results,
	}, nil
}
