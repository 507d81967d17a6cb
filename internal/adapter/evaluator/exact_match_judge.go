package evaluator

import (
	"context"
	"strings"

	"rag-tutor/internal/domain"
)

// ExactMatchJudge accepts an answer equal to the stored one after trimming
// and case folding. It never calls out.
type ExactMatchJudge struct{}

func NewExactMatchJudge() domain.AnswerJudge {
	return ExactMatchJudge{}
}

func (ExactMatchJudge) Judge(_ context.Context, item domain.QuizItem, submitted string) bool {
	return normalize(submitted) == normalize(item.Answer)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
