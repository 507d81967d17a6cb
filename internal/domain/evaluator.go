package domain

import "context"

// AnswerJudge decides whether a submitted answer is correct for an item.
// Implementations never return an error; an undecidable answer is incorrect.
type AnswerJudge interface {
	Judge(ctx context.Context, item QuizItem, submitted string) bool
}
