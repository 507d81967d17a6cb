package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"rag-tutor/internal/adapter/llm"
	"rag-tutor/internal/domain"

	"go.uber.org/zap"
)

// maxGenerationAttempts bounds the generate/validate loop.
const maxGenerationAttempts = 2

var errUnparseable = errors.New("model output is not a valid quiz JSON object")

type generationState int

const (
	stateGenerate generationState = iota
	stateValidate
	stateRetry
	stateSucceeded
	stateFailed
)

func (s generationState) String() string {
	switch s {
	case stateGenerate:
		return "generate"
	case stateValidate:
		return "validate"
	case stateRetry:
		return "retry"
	case stateSucceeded:
		return "succeeded"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LLMQuizGenerator implements domain.QuizGenerationService with a completion
// model, checking each reply for structure and passage consistency.
type LLMQuizGenerator struct {
	completion       domain.CompletionService
	detector         domain.PassageReferenceDetector
	counter          domain.TokenCounter
	maxContextTokens int
	logger           *zap.Logger
}

// NewLLMQuizGenerator creates a generator. counter may be nil to disable
// context budgeting.
func NewLLMQuizGenerator(
	completion domain.CompletionService,
	detector domain.PassageReferenceDetector,
	counter domain.TokenCounter,
	maxContextTokens int,
	logger *zap.Logger,
) (*LLMQuizGenerator, error) {
	if completion == nil {
		return nil, fmt.Errorf("completion service cannot be nil")
	}
	if detector == nil {
		detector = domain.NewPhraseDetector()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMQuizGenerator{
		completion:       completion,
		detector:         detector,
		counter:          counter,
		maxContextTokens: maxContextTokens,
		logger:           logger,
	}, nil
}

// Generate runs generate -> validate, and once more on failure. Attempts are
// sequential because the retry prompt names the first failure.
func (g *LLMQuizGenerator) Generate(ctx context.Context, req domain.QuizRequest, contextChunks []domain.RetrievalResult) (*domain.Quiz, error) {
	contextBlock := domain.FormatRetrievedContext(contextChunks, g.counter, g.maxContextTokens)

	var (
		state   = stateGenerate
		attempt int
		raw     string
		quiz    *domain.Quiz
		lastErr error
	)

	for {
		switch state {
		case stateGenerate:
			attempt++
			out, err := g.completion.Complete(ctx, buildMessages(req, contextBlock, lastErr), quizSchema)
			if err != nil {
				return nil, domain.NewUpstreamError("quiz generation call failed", err)
			}
			raw = out
			state = stateValidate

		case stateValidate:
			quiz, lastErr = g.parseAndValidate(raw)
			switch {
			case lastErr == nil:
				state = stateSucceeded
			case attempt < maxGenerationAttempts:
				state = stateRetry
			default:
				state = stateFailed
			}

		case stateRetry:
			g.logger.Warn("Generated quiz rejected, retrying",
				zap.Int("attempt", attempt),
				zap.String("topic", req.Topic),
				zap.Error(lastErr),
			)
			state = stateGenerate

		case stateSucceeded:
			quiz.Subject = req.Subject
			quiz.Year = req.Year
			if len(quiz.Items) != req.Count {
				g.logger.Info("Generated item count differs from request",
					zap.Int("requested", req.Count),
					zap.Int("generated", len(quiz.Items)),
				)
			}
			g.logger.Info("Quiz generated",
				zap.String("topic", req.Topic),
				zap.Int("attempts", attempt),
				zap.Int("items", len(quiz.Items)),
				zap.Bool("has_passage", quiz.HasPassage()),
			)
			return quiz, nil

		case stateFailed:
			g.logger.Error("Quiz generation exhausted retries",
				zap.Int("attempts", attempt),
				zap.String("topic", req.Topic),
				zap.Error(lastErr),
			)
			return nil, domain.NewGenerationError(lastErr.Error(), lastErr)
		}
	}
}

func (g *LLMQuizGenerator) parseAndValidate(raw string) (*domain.Quiz, error) {
	extracted := llm.ExtractJSONObject(raw)
	if extracted == "" {
		return nil, errUnparseable
	}

	var quiz domain.Quiz
	if err := json.Unmarshal([]byte(extracted), &quiz); err != nil {
		g.logger.Debug("Failed to unmarshal quiz JSON", zap.Error(err), zap.String("json", extracted))
		return nil, fmt.Errorf("%w: %v", errUnparseable, err)
	}
	if err := quiz.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassageConsistency(&quiz, g.detector); err != nil {
		return nil, err
	}
	return &quiz, nil
}

var _ domain.QuizGenerationService = (*LLMQuizGenerator)(nil)
