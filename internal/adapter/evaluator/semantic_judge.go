package evaluator

import (
	"context"
	"fmt"
	"strings"

	"rag-tutor/internal/adapter/llm"
	"rag-tutor/internal/domain"

	"go.uber.org/zap"
)

const correctToken = "CORRECT"

const semanticJudgeSystemPrompt = "You grade primary school answers fairly. " +
	"Accept synonyms, paraphrases and answers that are conceptually equivalent but worded differently. " +
	"Reject only answers that are conceptually wrong or unrelated to the question."

// SemanticJudge asks a completion model whether a free-text answer means the
// same as the reference. Any failure counts as incorrect.
type SemanticJudge struct {
	completion domain.CompletionService
	logger     *zap.Logger
}

func NewSemanticJudge(completion domain.CompletionService, logger *zap.Logger) domain.AnswerJudge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SemanticJudge{completion: completion, logger: logger}
}

func (j *SemanticJudge) Judge(ctx context.Context, item domain.QuizItem, submitted string) bool {
	if strings.TrimSpace(submitted) == "" {
		return false
	}

	prompt := fmt.Sprintf(`Question: %s
Reference answer: %s
Pupil's answer: %s

Reply with CORRECT or INCORRECT, then " | " and one short sentence of feedback.`, item.Question, item.Answer, submitted)

	out, err := j.completion.Complete(ctx, []domain.ChatMessage{
		domain.SystemMessage(semanticJudgeSystemPrompt),
		domain.UserMessage(prompt),
	}, nil)
	if err != nil {
		j.logger.Warn("Semantic judgment failed, marking answer incorrect",
			zap.String("item_id", item.ID),
			zap.Error(err),
		)
		return false
	}

	verdict := strings.ToUpper(llm.StripThinking(out))
	correct := strings.HasPrefix(verdict, correctToken)
	j.logger.Debug("Semantic judgment",
		zap.String("item_id", item.ID),
		zap.Bool("correct", correct),
		zap.String("raw", out),
	)
	return correct
}
